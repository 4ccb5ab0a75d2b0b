// Package view holds the page state behind the product listing and product
// detail screens. It knows nothing about rendering.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// AllCategories selects the unfiltered product set.
const AllCategories = "all"

// ErrSuperseded is returned when a fetch finished after a newer request on
// the same view; its result was dropped.
var ErrSuperseded = errors.New("superseded by a newer request")

const loadFailedNotice = "could not load products"

// Catalog is the subset of the catalog service the views read from.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
}

var _ Catalog = (*app.Service)(nil)

// Listing is the product listing page state.
type Listing struct {
	catalog Catalog
	log     *slog.Logger

	mu         sync.Mutex
	gen        uint64
	loadGen    uint64
	loaded     bool
	all        []domain.Product
	visible    []domain.Product
	categories []string
	category   string
	searchTerm string
	notice     string
}

func NewListing(catalog Catalog, log *slog.Logger) *Listing {
	if log == nil {
		log = logger.Discard()
	}
	return &Listing{
		catalog:  catalog,
		log:      log.With(slog.String("view", "listing")),
		category: AllCategories,
	}
}

// Load fetches products and categories concurrently. On failure the
// previous state is kept and a notice is set. A successful load resets the
// filters and invalidates any category fetch still in flight.
func (l *Listing) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loadGen++
	gen := l.loadGen
	l.mu.Unlock()

	var (
		products   []domain.Product
		categories []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = l.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = l.catalog.ListCategories(gctx)
		return err
	})
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.loadGen {
		return ErrSuperseded
	}
	if err != nil {
		l.notice = loadFailedNotice
		l.log.Warn("load failed", slog.Any("err", err))
		return fmt.Errorf("load listing: %w", err)
	}

	l.gen++
	l.loaded = true
	l.all = products
	l.visible = products
	l.categories = categories
	l.category = AllCategories
	l.searchTerm = ""
	l.notice = ""
	return nil
}

// SelectCategory shows the products of one category, fetched from the
// catalog. "all" (or an empty name) restores the full set. The active search
// term is not applied to the result.
func (l *Listing) SelectCategory(ctx context.Context, category string) error {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategories {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.gen++
		l.category = AllCategories
		l.visible = l.all
		l.notice = ""
		return nil
	}

	gen := l.begin()
	products, err := l.catalog.ListByCategory(ctx, category)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		l.log.Debug("dropping stale category result", slog.String("category", category))
		return ErrSuperseded
	}
	if err != nil {
		l.notice = loadFailedNotice
		l.log.Warn("category fetch failed", slog.String("category", category), slog.Any("err", err))
		return fmt.Errorf("select category %q: %w", category, err)
	}

	l.category = category
	l.visible = products
	l.notice = ""
	return nil
}

// SetSearchTerm filters the full product set by title. It always starts
// from every loaded product, never from the current category result.
func (l *Listing) SetSearchTerm(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	l.searchTerm = term
	l.visible = app.FilterByTitle(l.all, term)
}

func (l *Listing) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

// Visible returns a copy of the products currently shown.
func (l *Listing) Visible() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.visible)
}

// All returns a copy of every loaded product.
func (l *Listing) All() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.all)
}

func (l *Listing) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.categories)
}

func (l *Listing) Category() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.category
}

func (l *Listing) SearchTerm() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.searchTerm
}

// Notice is the non-fatal message to show after a failed fetch, or "".
func (l *Listing) Notice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notice
}

func (l *Listing) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Empty reports the explicit "no products" state.
func (l *Listing) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visible) == 0
}

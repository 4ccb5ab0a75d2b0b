package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
)

type DetailState int

const (
	DetailLoading DetailState = iota
	DetailLoaded
	DetailFailed
)

func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	default:
		return fmt.Sprintf("DetailState(%d)", int(s))
	}
}

// ProductGetter fetches one product by id.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int) (domain.Product, error)
}

// CartAdder receives the detail page's add-to-cart action.
type CartAdder interface {
	AddItem(p domain.Product, quantity int)
}

// Detail is the product detail page: Loading, then Loaded or Failed. There
// is no retry; showing an id again starts over from Loading.
type Detail struct {
	catalog ProductGetter
	log     *slog.Logger

	mu      sync.Mutex
	gen     uint64
	id      int
	state   DetailState
	product domain.Product
	err     error
}

func NewDetail(catalog ProductGetter, log *slog.Logger) *Detail {
	if log == nil {
		log = logger.Discard()
	}
	return &Detail{
		catalog: catalog,
		log:     log.With(slog.String("view", "detail")),
	}
}

// Show enters Loading for id and fetches it. A response for an id that has
// since been replaced by another Show call is dropped with ErrSuperseded.
func (d *Detail) Show(ctx context.Context, id int) error {
	gen := d.Begin(id)
	p, err := d.catalog.GetProduct(ctx, id)
	return d.Resolve(gen, p, err)
}

// Begin switches to Loading for id and returns the generation token that
// Resolve expects. Callers that fetch on their own use Begin/Resolve
// instead of Show.
func (d *Detail) Begin(id int) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.id = id
	d.state = DetailLoading
	d.product = domain.Product{}
	d.err = nil
	return d.gen
}

// Resolve applies a fetch result for the request started with gen.
func (d *Detail) Resolve(gen uint64, p domain.Product, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return ErrSuperseded
	}
	if err != nil {
		d.state = DetailFailed
		d.err = err
		d.log.Warn("product fetch failed", slog.Int("id", d.id), slog.Any("err", err))
		return fmt.Errorf("show product %d: %w", d.id, err)
	}

	d.state = DetailLoaded
	d.product = p
	return nil
}

func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Product returns the loaded product; ok is false unless the view is Loaded.
func (d *Detail) Product() (domain.Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product, d.state == DetailLoaded
}

func (d *Detail) ID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *Detail) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// AddToCart adds the loaded product to cart. It does nothing and returns
// false while the view is Loading or Failed.
func (d *Detail) AddToCart(cart CartAdder, quantity int) bool {
	p, ok := d.Product()
	if !ok {
		return false
	}
	cart.AddItem(p, quantity)
	d.log.Info("added to cart", slog.Int("id", p.ID), slog.Int("quantity", quantity))
	return true
}

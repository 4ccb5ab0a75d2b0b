package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	redShirt  = domain.Product{ID: 1, Title: "Red Shirt", Price: decimal.RequireFromString("19.99"), Category: "clothing"}
	bluePants = domain.Product{ID: 2, Title: "Blue Pants", Price: decimal.RequireFromString("39.50"), Category: "clothing"}
	headset   = domain.Product{ID: 3, Title: "Gaming Headset", Price: decimal.RequireFromString("64"), Category: "electronics"}
)

type fakeCatalog struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []string
	byCategory map[string][]domain.Product
	listErr    error
	getErr     error

	// when set, ListByCategory and GetProduct signal entered and wait on release
	entered chan struct{}
	release chan struct{}
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:   []domain.Product{redShirt, bluePants, headset},
		categories: []string{"clothing", "electronics"},
		byCategory: map[string][]domain.Product{
			"clothing":    {redShirt, bluePants},
			"electronics": {headset},
		},
	}
}

func (f *fakeCatalog) wait() {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeCatalog) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byCategory[category], nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.Product{}, f.getErr
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func ids(products []domain.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestListingLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("populates all and visible", func(t *testing.T) {
		l := NewListing(newFakeCatalog(), nil)
		require.NoError(t, l.Load(ctx))

		assert.True(t, l.Loaded())
		assert.Equal(t, []int{1, 2, 3}, ids(l.All()))
		assert.Equal(t, []int{1, 2, 3}, ids(l.Visible()))
		assert.Equal(t, []string{"clothing", "electronics"}, l.Categories())
		assert.Equal(t, AllCategories, l.Category())
		assert.Empty(t, l.Notice())
	})

	t.Run("failure keeps prior state", func(t *testing.T) {
		cat := newFakeCatalog()
		l := NewListing(cat, nil)
		require.NoError(t, l.Load(ctx))

		cat.listErr = domain.ErrCatalogUnavailable
		err := l.Load(ctx)
		require.ErrorIs(t, err, domain.ErrCatalogUnavailable)

		assert.Equal(t, []int{1, 2, 3}, ids(l.Visible()))
		assert.Equal(t, loadFailedNotice, l.Notice())
	})

	t.Run("failure before first load", func(t *testing.T) {
		cat := newFakeCatalog()
		cat.listErr = domain.ErrCatalogUnavailable
		l := NewListing(cat, nil)

		require.Error(t, l.Load(ctx))
		assert.False(t, l.Loaded())
		assert.True(t, l.Empty())
		assert.Equal(t, loadFailedNotice, l.Notice())
	})
}

func TestListingFilters(t *testing.T) {
	ctx := context.Background()
	l := NewListing(newFakeCatalog(), nil)
	require.NoError(t, l.Load(ctx))

	t.Run("category fetch replaces visible", func(t *testing.T) {
		require.NoError(t, l.SelectCategory(ctx, "electronics"))
		assert.Equal(t, []int{3}, ids(l.Visible()))
		assert.Equal(t, "electronics", l.Category())
	})

	t.Run("search ignores category and filters full set", func(t *testing.T) {
		l.SetSearchTerm("shirt")
		if diff := cmp.Diff([]int{1}, ids(l.Visible())); diff != "" {
			t.Fatalf("visible mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("category ignores search term", func(t *testing.T) {
		require.NoError(t, l.SelectCategory(ctx, "clothing"))
		assert.Equal(t, []int{1, 2}, ids(l.Visible()))
	})

	t.Run("all restores full set", func(t *testing.T) {
		require.NoError(t, l.SelectCategory(ctx, AllCategories))
		assert.Equal(t, []int{1, 2, 3}, ids(l.Visible()))
	})

	t.Run("no match is the empty state", func(t *testing.T) {
		l.SetSearchTerm("umbrella")
		assert.True(t, l.Empty())
		l.SetSearchTerm("")
		assert.False(t, l.Empty())
	})

	t.Run("unknown category is empty", func(t *testing.T) {
		require.NoError(t, l.SelectCategory(ctx, "garden"))
		assert.True(t, l.Empty())
	})
}

func TestListingCategoryFailureKeepsVisible(t *testing.T) {
	ctx := context.Background()
	cat := newFakeCatalog()
	l := NewListing(cat, nil)
	require.NoError(t, l.Load(ctx))
	l.SetSearchTerm("pants")

	cat.listErr = domain.ErrCatalogUnavailable
	err := l.SelectCategory(ctx, "electronics")
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	assert.Equal(t, []int{2}, ids(l.Visible()))
	assert.Equal(t, loadFailedNotice, l.Notice())
}

func TestListingDropsSupersededCategoryFetch(t *testing.T) {
	ctx := context.Background()
	cat := newFakeCatalog()
	l := NewListing(cat, nil)
	require.NoError(t, l.Load(ctx))

	cat.entered = make(chan struct{})
	cat.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- l.SelectCategory(ctx, "electronics") }()

	<-cat.entered
	l.SetSearchTerm("shirt")
	close(cat.release)

	err := <-done
	require.True(t, errors.Is(err, ErrSuperseded), "got %v", err)
	assert.Equal(t, []int{1}, ids(l.Visible()))
}

func TestDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("zero value is loading", func(t *testing.T) {
		d := NewDetail(newFakeCatalog(), nil)
		assert.Equal(t, DetailLoading, d.State())
		_, ok := d.Product()
		assert.False(t, ok)
	})

	t.Run("loaded", func(t *testing.T) {
		d := NewDetail(newFakeCatalog(), nil)
		require.NoError(t, d.Show(ctx, 2))

		assert.Equal(t, DetailLoaded, d.State())
		p, ok := d.Product()
		require.True(t, ok)
		assert.Equal(t, "Blue Pants", p.Title)
	})

	t.Run("not found fails", func(t *testing.T) {
		d := NewDetail(newFakeCatalog(), nil)
		err := d.Show(ctx, 42)

		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, DetailFailed, d.State())
		assert.ErrorIs(t, d.Err(), domain.ErrNotFound)
	})

	t.Run("new id re-enters loading", func(t *testing.T) {
		d := NewDetail(newFakeCatalog(), nil)
		require.NoError(t, d.Show(ctx, 1))

		d.Begin(3)
		assert.Equal(t, DetailLoading, d.State())
		assert.Equal(t, 3, d.ID())
	})

	t.Run("stale response dropped", func(t *testing.T) {
		d := NewDetail(newFakeCatalog(), nil)
		old := d.Begin(1)
		cur := d.Begin(2)

		assert.ErrorIs(t, d.Resolve(old, redShirt, nil), ErrSuperseded)
		assert.Equal(t, DetailLoading, d.State())

		require.NoError(t, d.Resolve(cur, bluePants, nil))
		p, _ := d.Product()
		assert.Equal(t, 2, p.ID)
	})
}

type recordingCart struct {
	added []domain.Product
	qty   []int
}

func (r *recordingCart) AddItem(p domain.Product, quantity int) {
	r.added = append(r.added, p)
	r.qty = append(r.qty, quantity)
}

func TestDetailAddToCart(t *testing.T) {
	ctx := context.Background()
	cart := &recordingCart{}

	d := NewDetail(newFakeCatalog(), nil)
	d.Begin(1)
	assert.False(t, d.AddToCart(cart, 1), "loading view must not add")

	require.NoError(t, d.Show(ctx, 1))
	assert.True(t, d.AddToCart(cart, 2))
	require.Len(t, cart.added, 1)
	assert.Equal(t, 1, cart.added[0].ID)
	assert.Equal(t, 2, cart.qty[0])

	_ = d.Show(ctx, 99)
	assert.False(t, d.AddToCart(cart, 1), "failed view must not add")
}

func TestDetailStateString(t *testing.T) {
	assert.Equal(t, "loading", DetailLoading.String())
	assert.Equal(t, "loaded", DetailLoaded.String())
	assert.Equal(t, "failed", DetailFailed.String())
	assert.Equal(t, "DetailState(9)", DetailState(9).String())
}

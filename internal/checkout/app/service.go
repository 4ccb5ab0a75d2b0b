package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CartReader interface {
	GetCart(ctx context.Context) ([]CartItem, error)
}

type CartItem struct {
	ProductID int
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID int) (Product, error)
}

type Product struct {
	ID    int
	Title string
	Price decimal.Decimal
}

type Service struct {
	Cart    CartReader
	Catalog CatalogReader

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		maxConcurrent: maxConcurrent,
	}
}

var ErrEmptyCart = errors.New("cart is empty")

// Quote prices the cart with the prices captured when items were added.
// With reprice it also looks every product up in the catalog and marks the
// lines whose current price differs; totals still use the cart prices.
func (s *Service) Quote(ctx context.Context, reprice bool) (domain.Quote, error) {
	items, err := s.Cart.GetCart(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(items))
	for idx, it := range items {
		lines[idx] = domain.QuoteLine{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
	}

	if reprice {
		if err := s.reprice(ctx, lines); err != nil {
			return domain.Quote{}, err
		}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}

	return domain.Quote{
		Lines:    lines,
		Total:    total,
		Repriced: reprice,
	}, nil
}

func (s *Service) reprice(ctx context.Context, lines []domain.QuoteLine) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range lines {
		g.Go(func() error {
			ln := &lines[idx]

			product, err := s.Catalog.GetProduct(ctx, ln.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", ln.ProductID, err)
			}

			ln.LivePrice = product.Price
			ln.Drifted = !product.Price.Equal(ln.UnitPrice)
			return nil
		})
	}

	return g.Wait()
}

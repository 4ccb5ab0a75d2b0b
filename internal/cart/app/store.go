package app

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is an in-memory cart owned by one session. Lines keep the order in
// which products were first added and there is at most one line per product.
// No operation fails: quantities below 1 are clamped and unknown ids are
// ignored.
type Store struct {
	log *slog.Logger
	now func() time.Time

	mu    sync.Mutex
	items []domain.CartItem
}

type Option func(*Store)

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithItems seeds the cart. Duplicate ids are merged and quantities clamped
// the same way AddItem does.
func WithItems(items ...domain.CartItem) Option {
	return func(s *Store) {
		for _, it := range items {
			s.add(it.ProductID, it.Title, it.UnitPrice, it.Quantity)
		}
	}
}

// DemoItems is the sample content a new session starts with when demo
// seeding is enabled.
func DemoItems() []domain.CartItem {
	return []domain.CartItem{
		{ProductID: 1, Title: "Sample Product 1", Quantity: 2, UnitPrice: decimal.RequireFromString("49.99")},
		{ProductID: 2, Title: "Sample Product 2", Quantity: 1, UnitPrice: decimal.RequireFromString("99.99")},
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		log: logger.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "cart"))
	return s
}

// AddItem adds quantity units of p, clamped to at least 1. An existing line
// for p.ID is incremented and keeps its original title and price.
func (s *Store) AddItem(p catalog.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(p.ID, p.Title, p.Price, quantity)
	s.log.Debug("item added", slog.Int("product_id", p.ID), slog.Int("quantity", clamp(quantity)))
}

func (s *Store) add(productID int, title string, price decimal.Decimal, quantity int) {
	quantity = clamp(quantity)

	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity += quantity
		return
	}

	s.items = append(s.items, domain.CartItem{
		ProductID: productID,
		Title:     title,
		Quantity:  quantity,
		UnitPrice: price,
	})
}

// UpdateQuantity sets the quantity of productID to max(1, quantity). It
// reports whether the product was in the cart.
func (s *Store) UpdateQuantity(productID, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.items[i].Quantity = clamp(quantity)
	return true
}

// RemoveItem deletes the line for productID and reports whether there was one.
func (s *Store) RemoveItem(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Total is recomputed from the lines on every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Checkout empties the cart and returns a receipt of what it held, in one
// step. An empty cart checks out to an empty receipt.
func (s *Store) Checkout() domain.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.ReceiptLine, 0, len(s.items))
	for _, it := range s.items {
		lines = append(lines, domain.ReceiptLine{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal(),
		})
	}

	receipt := domain.Receipt{
		ID:       uuid.NewString(),
		Lines:    lines,
		Total:    total(s.items),
		PlacedAt: s.now(),
	}
	s.items = nil

	s.log.Info("checkout",
		slog.String("receipt_id", receipt.ID),
		slog.Int("lines", len(lines)),
		slog.String("total", receipt.Total.StringFixed(2)),
	)
	return receipt
}

func (s *Store) indexOf(productID int) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ProductID == productID
	})
}

func total(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func clamp(quantity int) int {
	return max(1, quantity)
}

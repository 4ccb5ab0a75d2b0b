package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo ProductReader
}

func NewService(repo ProductReader) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	if id < 1 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.GetProduct(ctx, id)
}

// FilterByTitle keeps the products whose title contains term, ignoring case.
// An empty term keeps everything. The input slice is not modified.
func FilterByTitle(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

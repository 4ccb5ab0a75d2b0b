// Package fakestore reads the product catalog from a fakestore-compatible
// REST service.
package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
)

var (
	errEmptyBody = errors.New("empty response body")
	errNoRecord  = errors.New("status 404")
)

type ProductClient struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewProductClient builds a client for baseURL. Every request is bounded by
// timeout; there are no retries.
func NewProductClient(baseURL string, timeout time.Duration, log *slog.Logger) *ProductClient {
	if log == nil {
		log = logger.Discard()
	}
	return &ProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With(slog.String("component", "catalog_client")),
	}
}

func (c *ProductClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, c.unavailable("/products", err)
	}
	return out, nil
}

func (c *ProductClient) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/products/categories", &out); err != nil {
		return nil, c.unavailable("/products/categories", err)
	}
	return out, nil
}

func (c *ProductClient) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/products/category/" + url.PathEscape(category)

	var out []domain.Product
	if err := c.get(ctx, path, &out); err != nil {
		return nil, c.unavailable(path, err)
	}
	return out, nil
}

// GetProduct returns domain.ErrNotFound for a 404 and also for a 200 with an
// empty, null or id-less body, which is how the public service answers
// unknown ids.
func (c *ProductClient) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	path := "/products/" + strconv.Itoa(id)

	var p *domain.Product
	err := c.get(ctx, path, &p)
	switch {
	case errors.Is(err, errNoRecord), errors.Is(err, errEmptyBody):
		c.log.Info("product not found", slog.Int("id", id))
		return domain.Product{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	case err != nil:
		return domain.Product{}, c.unavailable(path, err)
	case p == nil, p.ID == 0:
		c.log.Info("product not found", slog.Int("id", id))
		return domain.Product{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return *p, nil
}

func (c *ProductClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("catalog request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return errNoRecord
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *ProductClient) unavailable(path string, err error) error {
	c.log.Error("catalog request failed", slog.String("path", path), slog.Any("err", err))
	return fmt.Errorf("%w: GET %s: %w", domain.ErrCatalogUnavailable, path, err)
}

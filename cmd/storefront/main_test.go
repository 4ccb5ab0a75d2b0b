package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
 {"id":1,"title":"Red Shirt","price":19.99,"category":"clothing","description":"cotton","image":"https://img/1.png"},
 {"id":2,"title":"Blue Pants","price":39.5,"category":"clothing","description":"denim","image":"https://img/2.png"},
 {"id":3,"title":"Gaming Headset","price":64,"category":"electronics","description":"loud","image":"https://img/3.png"}
]`

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, productsJSON)
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["clothing","electronics"]`)
	})
	mux.HandleFunc("GET /products/category/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") != "electronics" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{"id":3,"title":"Gaming Headset","price":64,"category":"electronics"}]`)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"id":2,"title":"Blue Pants","price":39.5,"category":"clothing","description":"denim","image":"https://img/2.png"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "LOG_FILE", "CATALOG_BASE_URL", "HTTP_TIMEOUT", "QUOTE_CONCURRENCY", "SEED_DEMO_CART", "STOREFRONT_CONFIG"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProductsCommand(t *testing.T) {
	srv := newCatalogServer(t)

	t.Run("all", func(t *testing.T) {
		out, err := execute(t, "--base-url", srv.URL, "products")
		require.NoError(t, err)
		assert.Contains(t, out, "   1      $19.99  Red Shirt\n")
		assert.Contains(t, out, "Blue Pants")
		assert.Contains(t, out, "Gaming Headset")
	})

	t.Run("search", func(t *testing.T) {
		out, err := execute(t, "--base-url", srv.URL, "products", "--search", "SHIRT")
		require.NoError(t, err)
		assert.Contains(t, out, "Red Shirt")
		assert.NotContains(t, out, "Blue Pants")
	})

	t.Run("category", func(t *testing.T) {
		out, err := execute(t, "--base-url", srv.URL, "products", "--category", "electronics")
		require.NoError(t, err)
		assert.Equal(t, "   3      $64.00  Gaming Headset\n", out)
	})

	t.Run("no match", func(t *testing.T) {
		out, err := execute(t, "--base-url", srv.URL, "products", "--search", "zzz")
		require.NoError(t, err)
		assert.Equal(t, "No products available\n", out)
	})

	t.Run("category and search are exclusive", func(t *testing.T) {
		_, err := execute(t, "--base-url", srv.URL, "products", "--search", "a", "--category", "b")
		assert.Error(t, err)
	})

	t.Run("catalog down", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer down.Close()

		_, err := execute(t, "--base-url", down.URL, "products")
		assert.Error(t, err)
	})
}

func TestProductCommand(t *testing.T) {
	srv := newCatalogServer(t)

	t.Run("found", func(t *testing.T) {
		out, err := execute(t, "--base-url", srv.URL, "product", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Title:       Blue Pants\n")
		assert.Contains(t, out, "Price:       $39.50\n")
		assert.Contains(t, out, "Description: denim\n")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := execute(t, "--base-url", srv.URL, "product", "99")
		require.Error(t, err)
		assert.Equal(t, "product 99 not found", err.Error())
	})

	t.Run("bad id", func(t *testing.T) {
		_, err := execute(t, "--base-url", srv.URL, "product", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid product id")
	})
}

func TestCategoriesCommand(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := execute(t, "--base-url", srv.URL, "categories")
	require.NoError(t, err)
	assert.Equal(t, "clothing\nelectronics\n", out)
}

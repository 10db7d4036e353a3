package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mkrylov/storefront/internal/catalog"
)

// Products returns the full catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/products")
	if err != nil {
		return nil, err
	}
	return NormalizeProducts(raw)
}

// NewProducts returns only products flagged as new arrivals.
func (c *Client) NewProducts(ctx context.Context) ([]catalog.Product, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/products/new")
	if err != nil {
		return nil, err
	}
	return NormalizeProducts(raw)
}

// SearchProducts returns products matching name.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]catalog.Product, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "/public/products/search?name="+url.QueryEscape(name))
	if err != nil {
		return nil, err
	}
	return NormalizeProducts(raw)
}

package backend

import (
	"encoding/json"
	"fmt"

	"github.com/mkrylov/storefront/internal/catalog"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

// NormalizeProducts decodes a product-list response body. The backend is
// inconsistent about its shape, so the accepted forms, in precedence order,
// are: {"data": [...]}, {"products": [...]}, and a bare array.
func NormalizeProducts(body []byte) ([]catalog.Product, error) {
	var wrapped struct {
		Data     []catalog.Product `json:"data"`
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Data != nil {
			return wrapped.Data, nil
		}
		if wrapped.Products != nil {
			return wrapped.Products, nil
		}
	}

	var bare []catalog.Product
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("unrecognized product list shape: %w", err)
	}
	return bare, nil
}

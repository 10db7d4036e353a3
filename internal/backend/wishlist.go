package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mkrylov/storefront/internal/catalog"
)

// WishlistItem pairs a wishlisted product with its quantity.
type WishlistItem struct {
	Product  catalog.Product
	Quantity int
}

// UnmarshalJSON tolerates the populated "productId" field as well as a
// bare product object.
func (i *WishlistItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID *catalog.Product `json:"productId"`
		Quantity  int              `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err == nil && raw.ProductID != nil {
		i.Product = *raw.ProductID
		i.Quantity = raw.Quantity
		if i.Quantity < 1 {
			i.Quantity = 1
		}
		return nil
	}

	var bare catalog.Product
	if err := json.Unmarshal(data, &bare); err != nil {
		return fmt.Errorf("wishlist item has no product: %w", err)
	}
	i.Product = bare
	i.Quantity = 1
	return nil
}

// Wishlist fetches the current wishlist. Requires authentication.
func (c *Client) Wishlist(ctx context.Context) ([]WishlistItem, error) {
	env, err := c.do(ctx, http.MethodGet, "/wishlist", nil, true)
	if err != nil {
		return nil, err
	}
	items := []WishlistItem{}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, fmt.Errorf("invalid wishlist payload: %w", err)
		}
	}
	return items, nil
}

// AddToWishlist adds a product. Returns ErrConflict when the backend
// reports it is already present.
func (c *Client) AddToWishlist(ctx context.Context, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPost, "/wishlist", quantityRequest{ProductID: productID, Quantity: quantity}, true)
	return err
}

// UpdateWishlistItem sets the quantity of an existing entry.
func (c *Client) UpdateWishlistItem(ctx context.Context, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/wishlist/%d", productID), quantityRequest{Quantity: quantity}, true)
	return err
}

// RemoveFromWishlist removes an entry.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", productID), nil, true)
	return err
}

// ClearWishlist removes every entry.
func (c *Client) ClearWishlist(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/wishlist", nil, true)
	return err
}

// CheckWishlist reports whether the product is already wishlisted.
func (c *Client) CheckWishlist(ctx context.Context, productID int64) (bool, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/wishlist/check/%d", productID), nil, true)
	if err != nil {
		return false, err
	}
	var present bool
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &present); err != nil {
			return false, fmt.Errorf("invalid wishlist check payload: %w", err)
		}
	}
	return present, nil
}

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mkrylov/storefront/internal/catalog"
)

// CartItem pairs a product with the quantity in the cart.
type CartItem struct {
	Product  catalog.Product
	Quantity int
	Subtotal float64
}

// UnmarshalJSON tolerates both field names the backend uses for the
// populated product ("productId" and "product"). A missing quantity
// defaults to 1.
func (i *CartItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID *catalog.Product `json:"productId"`
		Product   *catalog.Product `json:"product"`
		Quantity  int              `json:"quantity"`
		Subtotal  float64          `json:"subtotal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ProductID != nil:
		i.Product = *raw.ProductID
	case raw.Product != nil:
		i.Product = *raw.Product
	default:
		return fmt.Errorf("cart item has no product")
	}
	i.Quantity = raw.Quantity
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	i.Subtotal = raw.Subtotal
	return nil
}

// Cart is the authoritative server-side cart contents.
type Cart struct {
	Items []CartItem `json:"items"`
}

type quantityRequest struct {
	ProductID int64 `json:"productId,omitempty"`
	Quantity  int   `json:"quantity"`
}

// Cart fetches the current cart. Requires authentication.
func (c *Client) Cart(ctx context.Context) (*Cart, error) {
	env, err := c.do(ctx, http.MethodGet, "/cart", nil, true)
	if err != nil {
		return nil, err
	}
	var cart Cart
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &cart); err != nil {
			return nil, fmt.Errorf("invalid cart payload: %w", err)
		}
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}

// CartCount fetches the header badge counter.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodGet, "/cart/count", nil, true)
	if err != nil {
		return 0, err
	}
	if env.Count == nil {
		return 0, nil
	}
	return *env.Count, nil
}

// AddToCart adds quantity units of a product.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPost, "/cart", quantityRequest{ProductID: productID, Quantity: quantity}, true)
	return err
}

// UpdateCartQuantity sets the quantity of an existing line item.
func (c *Client) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", productID), quantityRequest{Quantity: quantity}, true)
	return err
}

// RemoveFromCart removes a line item.
func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", productID), nil, true)
	return err
}

// ClearCart removes every line item.
func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/cart", nil, true)
	return err
}

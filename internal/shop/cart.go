package shop

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mkrylov/storefront/internal/backend"
	"github.com/mkrylov/storefront/internal/bus"
)

// CartAPI is the slice of the backend client the cart service needs.
type CartAPI interface {
	Cart(ctx context.Context) (*backend.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error
}

// TokenSource gates mutations on credential presence.
type TokenSource interface {
	Token() string
}

// CartService owns a cached copy of the server-side cart and mutates it
// optimistically. The authoritative copy stays on the backend; every
// failure restores the snapshot taken when the operation started.
type CartService struct {
	api    CartAPI
	tokens TokenSource
	bus    *bus.Bus
	logger *slog.Logger

	mu        sync.Mutex
	items     []backend.CartItem
	locks     map[string]struct{}
	status    Status
	statusGen int
	after     afterFunc
}

// CartOption configures a CartService.
type CartOption func(*CartService)

// WithCartTimer replaces the status-clear timer hook.
func WithCartTimer(f afterFunc) CartOption {
	return func(s *CartService) { s.after = f }
}

// NewCartService creates a CartService with an empty local cart.
func NewCartService(api CartAPI, tokens TokenSource, b *bus.Bus, logger *slog.Logger, opts ...CartOption) *CartService {
	s := &CartService{
		api:    api,
		tokens: tokens,
		bus:    b,
		logger: logger.With("component", "cart"),
		locks:  make(map[string]struct{}),
		after:  time.AfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the local copy with the server's view.
func (s *CartService) Refresh(ctx context.Context) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	cart, err := s.api.Cart(ctx)
	if err != nil {
		s.mu.Lock()
		s.setStatusLocked(Status{Message: "Error: " + err.Error(), Kind: MessageError})
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.items = cart.Items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the local cart contents.
func (s *CartService) Items() []backend.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Quantity returns the local quantity for a product, 0 when absent.
func (s *CartService) Quantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Status returns the current transient message, if any.
func (s *CartService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Pending reports whether an operation for the given lock id is in flight.
func (s *CartService) Pending(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.locks[op]
	return ok
}

// Add adds one unit of a product. The optimistic entry carries only the
// product id; Refresh after commit fills in the populated product.
func (s *CartService) Add(ctx context.Context, item backend.CartItem) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	productID := item.Product.ID

	s.mu.Lock()
	snapshot, ok := s.beginLocked(opAdd(productID))
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = append(slices.Clone(s.items), item)
	s.mu.Unlock()

	err := s.api.AddToCart(ctx, productID, item.Quantity)
	return s.finish(opAdd(productID), snapshot, err, Status{Message: "Added to cart successfully!", Kind: MessageSuccess})
}

// UpdateQuantity sets the quantity of an existing line item.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	snapshot, ok := s.beginLocked(opUpdate(productID))
	if !ok {
		s.mu.Unlock()
		return nil
	}
	updated := slices.Clone(s.items)
	for i := range updated {
		if updated[i].Product.ID == productID {
			updated[i].Quantity = quantity
		}
	}
	s.items = updated
	s.mu.Unlock()

	err := s.api.UpdateCartQuantity(ctx, productID, quantity)
	return s.finish(opUpdate(productID), snapshot, err, Status{})
}

// Increment raises the quantity by one, clamped at the known stock. An
// increment that would exceed stock is dropped before any request is sent.
func (s *CartService) Increment(ctx context.Context, productID int64) error {
	s.mu.Lock()
	var current int
	var stock *int
	for _, item := range s.items {
		if item.Product.ID == productID {
			current = item.Quantity
			stock = item.Product.Stock
		}
	}
	s.mu.Unlock()

	if current == 0 {
		return nil
	}
	if stock != nil && current >= *stock {
		return nil
	}
	return s.UpdateQuantity(ctx, productID, current+1)
}

// Decrement lowers the quantity by one with a floor of 1.
func (s *CartService) Decrement(ctx context.Context, productID int64) error {
	current := s.Quantity(productID)
	if current <= 1 {
		return nil
	}
	return s.UpdateQuantity(ctx, productID, current-1)
}

// Remove deletes a line item.
func (s *CartService) Remove(ctx context.Context, productID int64) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	s.mu.Lock()
	snapshot, ok := s.beginLocked(opRemove(productID))
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = slices.DeleteFunc(slices.Clone(s.items), func(item backend.CartItem) bool {
		return item.Product.ID == productID
	})
	s.mu.Unlock()

	err := s.api.RemoveFromCart(ctx, productID)
	return s.finish(opRemove(productID), snapshot, err, Status{})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	s.mu.Lock()
	snapshot, ok := s.beginLocked(opClearAll)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = []backend.CartItem{}
	s.mu.Unlock()

	err := s.api.ClearCart(ctx)
	return s.finish(opClearAll, snapshot, err, Status{})
}

// beginLocked checks the lock precondition, snapshots the collection and
// takes the lock. Callers hold s.mu.
func (s *CartService) beginLocked(op string) ([]backend.CartItem, bool) {
	if _, pending := s.locks[op]; pending {
		return nil, false
	}
	snapshot := slices.Clone(s.items)
	s.locks[op] = struct{}{}
	s.status = Status{}
	return snapshot, true
}

// finish resolves a pending operation: commit (status, publish) on success,
// roll back to the snapshot on failure. The lock is always released. The bus
// publish happens after the mutex is dropped so subscribers may read back
// through the service.
func (s *CartService) finish(op string, snapshot []backend.CartItem, err error, onCommit Status) error {
	s.mu.Lock()
	delete(s.locks, op)

	if err != nil {
		s.items = snapshot
		s.setStatusLocked(Status{Message: "Error: " + err.Error(), Kind: MessageError})
		s.mu.Unlock()
		s.logger.Error("Cart operation failed", "op", op, "error", err)
		return err
	}

	if onCommit.Message != "" {
		s.setStatusLocked(onCommit)
	}
	s.mu.Unlock()

	s.bus.Publish(bus.CartUpdated)
	return nil
}

// setStatusLocked installs a transient message and arms its self-clear
// timer. A newer message keeps its own timer from being cleared by an
// older one. Callers hold s.mu.
func (s *CartService) setStatusLocked(status Status) {
	s.status = status
	s.statusGen++
	gen := s.statusGen
	s.after(statusTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusGen == gen {
			s.status = Status{}
		}
	})
}

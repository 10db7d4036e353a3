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

// WishlistAPI is the slice of the backend client the wishlist service needs.
type WishlistAPI interface {
	Wishlist(ctx context.Context) ([]backend.WishlistItem, error)
	AddToWishlist(ctx context.Context, productID int64, quantity int) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
	ClearWishlist(ctx context.Context) error
	CheckWishlist(ctx context.Context, productID int64) (bool, error)
}

// WishlistService mirrors CartService for the wishlist. The one protocol
// difference is the duplicate-add case: a conflict is a state correction,
// not an error, and never rolls back.
type WishlistService struct {
	api    WishlistAPI
	tokens TokenSource
	bus    *bus.Bus
	logger *slog.Logger

	mu        sync.Mutex
	items     []backend.WishlistItem
	locks     map[string]struct{}
	status    Status
	statusGen int
	after     afterFunc
}

// WishlistOption configures a WishlistService.
type WishlistOption func(*WishlistService)

// WithWishlistTimer replaces the status-clear timer hook.
func WithWishlistTimer(f afterFunc) WishlistOption {
	return func(s *WishlistService) { s.after = f }
}

// NewWishlistService creates a WishlistService with an empty local list.
func NewWishlistService(api WishlistAPI, tokens TokenSource, b *bus.Bus, logger *slog.Logger, opts ...WishlistOption) *WishlistService {
	s := &WishlistService{
		api:    api,
		tokens: tokens,
		bus:    b,
		logger: logger.With("component", "wishlist"),
		locks:  make(map[string]struct{}),
		after:  time.AfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the local copy with the server's view.
func (s *WishlistService) Refresh(ctx context.Context) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	items, err := s.api.Wishlist(ctx)
	if err != nil {
		s.mu.Lock()
		s.setStatusLocked(Status{Message: "Error: " + err.Error(), Kind: MessageError})
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the local wishlist contents.
func (s *WishlistService) Items() []backend.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Contains reports whether the product is in the local wishlist copy.
func (s *WishlistService) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(productID)
}

func (s *WishlistService) containsLocked(productID int64) bool {
	for _, item := range s.items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Status returns the current transient message, if any.
func (s *WishlistService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Pending reports whether an operation for the given lock id is in flight.
func (s *WishlistService) Pending(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.locks[op]
	return ok
}

// Add adds a product to the wishlist. A duplicate, whether detected
// locally or reported by the backend as a conflict, ends with the item
// present and an informational message.
func (s *WishlistService) Add(ctx context.Context, item backend.WishlistItem) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	productID := item.Product.ID

	s.mu.Lock()
	if s.containsLocked(productID) {
		s.setStatusLocked(Status{Message: "This item is already in your wishlist!", Kind: MessageInfo})
		s.mu.Unlock()
		return nil
	}
	snapshot, ok := s.beginLocked(opAdd(productID))
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = append(slices.Clone(s.items), item)
	s.mu.Unlock()

	err := s.api.AddToWishlist(ctx, productID, item.Quantity)

	s.mu.Lock()
	delete(s.locks, opAdd(productID))

	switch {
	case err == nil:
		s.setStatusLocked(Status{Message: "Added to wishlist successfully!", Kind: MessageSuccess})
		s.mu.Unlock()
		s.bus.Publish(bus.WishlistUpdated)
		return nil
	case backend.IsConflict(err):
		// Already wishlisted server-side: keep the optimistic entry, the
		// local state is now correct.
		s.setStatusLocked(Status{Message: "This item is already in your wishlist!", Kind: MessageInfo})
		s.mu.Unlock()
		return nil
	default:
		s.items = snapshot
		s.setStatusLocked(Status{Message: "Error: " + err.Error(), Kind: MessageError})
		s.mu.Unlock()
		s.logger.Error("Wishlist add failed", "product_id", productID, "error", err)
		return err
	}
}

// Remove deletes an entry.
func (s *WishlistService) Remove(ctx context.Context, productID int64) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	s.mu.Lock()
	snapshot, ok := s.beginLocked(opRemove(productID))
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = slices.DeleteFunc(slices.Clone(s.items), func(item backend.WishlistItem) bool {
		return item.Product.ID == productID
	})
	s.mu.Unlock()

	err := s.api.RemoveFromWishlist(ctx, productID)
	return s.finish(opRemove(productID), snapshot, err)
}

// Clear empties the wishlist.
func (s *WishlistService) Clear(ctx context.Context) error {
	if s.tokens.Token() == "" {
		return ErrNotSignedIn
	}
	s.mu.Lock()
	snapshot, ok := s.beginLocked(opClearAll)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.items = []backend.WishlistItem{}
	s.mu.Unlock()

	err := s.api.ClearWishlist(ctx)
	return s.finish(opClearAll, snapshot, err)
}

// Check asks the backend whether the product is wishlisted and corrects
// the local flag accordingly.
func (s *WishlistService) Check(ctx context.Context, productID int64) (bool, error) {
	if s.tokens.Token() == "" {
		return false, ErrNotSignedIn
	}
	return s.api.CheckWishlist(ctx, productID)
}

func (s *WishlistService) beginLocked(op string) ([]backend.WishlistItem, bool) {
	if _, pending := s.locks[op]; pending {
		return nil, false
	}
	snapshot := slices.Clone(s.items)
	s.locks[op] = struct{}{}
	s.status = Status{}
	return snapshot, true
}

// finish releases the lock and resolves the operation. The bus publish
// happens after the mutex is dropped so subscribers may read back through
// the service.
func (s *WishlistService) finish(op string, snapshot []backend.WishlistItem, err error) error {
	s.mu.Lock()
	delete(s.locks, op)

	if err != nil {
		s.items = snapshot
		s.setStatusLocked(Status{Message: "Error: " + err.Error(), Kind: MessageError})
		s.mu.Unlock()
		s.logger.Error("Wishlist operation failed", "op", op, "error", err)
		return err
	}
	s.mu.Unlock()

	s.bus.Publish(bus.WishlistUpdated)
	return nil
}

func (s *WishlistService) setStatusLocked(status Status) {
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

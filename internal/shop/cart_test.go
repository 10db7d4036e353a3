package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrylov/storefront/internal/backend"
	"github.com/mkrylov/storefront/internal/bus"
	"github.com/mkrylov/storefront/internal/catalog"
)

type mockCartAPI struct {
	mu           sync.Mutex
	calls        []string
	lastQuantity int
	err          error
	cart         *backend.Cart

	// when set, AddToCart signals entry and then blocks until release.
	enterAdd   chan struct{}
	releaseAdd chan struct{}
}

func (m *mockCartAPI) record(call string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	m.lastQuantity = quantity
}

func (m *mockCartAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockCartAPI) Cart(_ context.Context) (*backend.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockCartAPI) AddToCart(_ context.Context, productID int64, quantity int) error {
	m.record(fmt.Sprintf("add-%d", productID), quantity)
	if m.enterAdd != nil {
		m.enterAdd <- struct{}{}
		<-m.releaseAdd
	}
	return m.err
}

func (m *mockCartAPI) UpdateCartQuantity(_ context.Context, productID int64, quantity int) error {
	m.record(fmt.Sprintf("update-%d", productID), quantity)
	return m.err
}

func (m *mockCartAPI) RemoveFromCart(_ context.Context, productID int64) error {
	m.record(fmt.Sprintf("remove-%d", productID), 0)
	return m.err
}

func (m *mockCartAPI) ClearCart(_ context.Context) error {
	m.record("clear", 0)
	return m.err
}

func cartItem(productID int64, quantity int) backend.CartItem {
	return backend.CartItem{Product: catalog.Product{ID: productID}, Quantity: quantity}
}

func newTestCart(api *mockCartAPI, token string) (*CartService, *fakeClock, *atomic.Int32) {
	clock := &fakeClock{}
	b := bus.New()
	var published atomic.Int32
	b.Subscribe(bus.CartUpdated, func() { published.Add(1) })
	svc := NewCartService(api, staticTokens(token), b, discardLogger(), WithCartTimer(clock.After))
	return svc, clock, &published
}

func Test_CartAdd_RequiresToken(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, published := newTestCart(api, "")

	err := svc.Add(context.Background(), cartItem(1, 1))

	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, api.callCount())
	assert.Empty(t, svc.Items())
	assert.Zero(t, published.Load())
	// no error message for the signed-out case
	assert.Empty(t, svc.Status().Message)
}

func Test_CartAdd_Commit(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, published := newTestCart(api, "token")

	err := svc.Add(context.Background(), cartItem(1, 2))

	require.NoError(t, err)
	assert.Equal(t, 2, svc.Quantity(1))
	assert.Equal(t, Status{Message: "Added to cart successfully!", Kind: MessageSuccess}, svc.Status())
	assert.Equal(t, int32(1), published.Load())
	assert.False(t, svc.Pending("add-1"))
}

func Test_CartAdd_RollbackOnFailure(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, published := newTestCart(api, "token")
	require.NoError(t, svc.Add(context.Background(), cartItem(1, 1)))
	published.Store(0)

	api.err = errors.New("boom")
	err := svc.Add(context.Background(), cartItem(2, 1))

	require.Error(t, err)
	// the failed entry is gone, the earlier one survives
	assert.Equal(t, 1, svc.Quantity(1))
	assert.Zero(t, svc.Quantity(2))
	assert.Equal(t, MessageError, svc.Status().Kind)
	assert.Contains(t, svc.Status().Message, "boom")
	assert.Zero(t, published.Load())
	assert.False(t, svc.Pending("add-2"))
}

func Test_CartUpdateQuantity_RollbackOnFailure(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, _ := newTestCart(api, "token")
	svc.items = []backend.CartItem{cartItem(7, 2)}

	api.err = errors.New("boom")
	err := svc.UpdateQuantity(context.Background(), 7, 3)

	require.Error(t, err)
	// the quantity is exactly what it was before the attempt
	assert.Equal(t, 2, svc.Quantity(7))
	assert.Equal(t, MessageError, svc.Status().Kind)
	assert.NotEmpty(t, svc.Status().Message)
	assert.False(t, svc.Pending("update-7"))
}

func Test_CartAdd_DuplicatePendingIsNoOp(t *testing.T) {
	api := &mockCartAPI{
		enterAdd:   make(chan struct{}, 2),
		releaseAdd: make(chan struct{}),
	}
	svc, _, _ := newTestCart(api, "token")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- svc.Add(context.Background(), cartItem(1, 1))
	}()
	<-api.enterAdd

	// same product while in flight: silently dropped, no second request
	assert.True(t, svc.Pending("add-1"))
	require.NoError(t, svc.Add(context.Background(), cartItem(1, 1)))
	assert.Equal(t, 1, api.callCount())

	close(api.releaseAdd)
	require.NoError(t, <-firstDone)
	assert.False(t, svc.Pending("add-1"))

	// once resolved the same operation may run again
	require.NoError(t, svc.Add(context.Background(), cartItem(1, 1)))
	assert.Equal(t, 2, api.callCount())
}

func Test_CartUpdateQuantity_ClampsToFloor(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, _ := newTestCart(api, "token")
	require.NoError(t, svc.Add(context.Background(), cartItem(1, 3)))

	require.NoError(t, svc.UpdateQuantity(context.Background(), 1, 0))

	assert.Equal(t, 1, svc.Quantity(1))
	assert.Equal(t, 1, api.lastQuantity)
}

func Test_CartIncrement(t *testing.T) {
	stock := 2

	testCases := []struct {
		name          string
		seed          backend.CartItem
		productID     int64
		expectedCalls int
		expectedQty   int
	}{
		{
			name:          "below stock increments",
			seed:          backend.CartItem{Product: catalog.Product{ID: 1, Stock: &stock}, Quantity: 1},
			productID:     1,
			expectedCalls: 1,
			expectedQty:   2,
		},
		{
			name:          "at stock ceiling is dropped before any request",
			seed:          backend.CartItem{Product: catalog.Product{ID: 1, Stock: &stock}, Quantity: 2},
			productID:     1,
			expectedCalls: 0,
			expectedQty:   2,
		},
		{
			name:          "absent product is a no-op",
			seed:          cartItem(1, 1),
			productID:     99,
			expectedCalls: 0,
			expectedQty:   0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockCartAPI{}
			svc, _, _ := newTestCart(api, "token")
			svc.items = []backend.CartItem{tc.seed}

			require.NoError(t, svc.Increment(context.Background(), tc.productID))

			assert.Equal(t, tc.expectedCalls, api.callCount())
			assert.Equal(t, tc.expectedQty, svc.Quantity(tc.productID))
		})
	}
}

func Test_CartDecrement_FloorsAtOne(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, _ := newTestCart(api, "token")
	svc.items = []backend.CartItem{cartItem(1, 1)}

	require.NoError(t, svc.Decrement(context.Background(), 1))

	assert.Zero(t, api.callCount())
	assert.Equal(t, 1, svc.Quantity(1))
}

func Test_CartRemove_RollbackOnFailure(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, _ := newTestCart(api, "token")
	svc.items = []backend.CartItem{cartItem(1, 1), cartItem(2, 1)}

	api.err = errors.New("boom")
	err := svc.Remove(context.Background(), 1)

	require.Error(t, err)
	assert.Len(t, svc.Items(), 2)
	assert.Equal(t, MessageError, svc.Status().Kind)
}

func Test_CartClear(t *testing.T) {
	api := &mockCartAPI{}
	svc, _, published := newTestCart(api, "token")
	svc.items = []backend.CartItem{cartItem(1, 1), cartItem(2, 3)}

	require.NoError(t, svc.Clear(context.Background()))

	assert.Empty(t, svc.Items())
	assert.Equal(t, int32(1), published.Load())
}

func Test_CartStatus_SelfClears(t *testing.T) {
	api := &mockCartAPI{}
	svc, clock, _ := newTestCart(api, "token")

	require.NoError(t, svc.Add(context.Background(), cartItem(1, 1)))
	require.NotEmpty(t, svc.Status().Message)

	clock.Fire()
	assert.Empty(t, svc.Status().Message)
}

func Test_CartStatus_NewerMessageSurvivesOlderTimer(t *testing.T) {
	api := &mockCartAPI{}
	svc, clock, _ := newTestCart(api, "token")

	require.NoError(t, svc.Add(context.Background(), cartItem(1, 1)))
	older := clock.fns
	clock.fns = nil

	require.NoError(t, svc.Add(context.Background(), cartItem(2, 1)))

	// the first message's timer fires late; the second message stays
	for _, fn := range older {
		fn()
	}
	assert.Equal(t, "Added to cart successfully!", svc.Status().Message)
}

func Test_CartRefresh(t *testing.T) {
	api := &mockCartAPI{cart: &backend.Cart{Items: []backend.CartItem{cartItem(7, 2)}}}
	svc, _, _ := newTestCart(api, "token")

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 2, svc.Quantity(7))

	api.err = errors.New("down")
	require.Error(t, svc.Refresh(context.Background()))
	assert.Equal(t, MessageError, svc.Status().Kind)
	assert.Contains(t, svc.Status().Message, "down")
}

func Test_CartCommit_SubscriberReadsBackThroughService(t *testing.T) {
	api := &mockCartAPI{}
	clock := &fakeClock{}
	b := bus.New()
	svc := NewCartService(api, staticTokens("token"), b, discardLogger(), WithCartTimer(clock.After))

	// header-badge pattern: the subscriber re-reads its own state from the
	// service that published the event
	var seen []backend.CartItem
	b.Subscribe(bus.CartUpdated, func() { seen = svc.Items() })

	done := make(chan error, 1)
	go func() { done <- svc.Add(context.Background(), cartItem(1, 2)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Add did not return; publish must not run under the service mutex")
	}
	require.Len(t, seen, 1)
	assert.Equal(t, int64(1), seen[0].Product.ID)
}

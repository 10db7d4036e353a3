package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bus_PublishReachesAllSubscribers(t *testing.T) {
	b := New()
	var first, second int
	b.Subscribe(CartUpdated, func() { first++ })
	b.Subscribe(CartUpdated, func() { second++ })

	b.Publish(CartUpdated)
	b.Publish(CartUpdated)

	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func Test_Bus_TopicsAreIsolated(t *testing.T) {
	b := New()
	var cart, wishlist int
	b.Subscribe(CartUpdated, func() { cart++ })
	b.Subscribe(WishlistUpdated, func() { wishlist++ })

	b.Publish(CartUpdated)

	assert.Equal(t, 1, cart)
	assert.Zero(t, wishlist)
}

func Test_Bus_PublishWithoutSubscribersIsHarmless(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Publish(AuthChanged) })
}

func Test_Bus_CancelStopsDelivery(t *testing.T) {
	b := New()
	var calls int
	sub := b.Subscribe(CartUpdated, func() { calls++ })

	b.Publish(CartUpdated)
	sub.Cancel()
	b.Publish(CartUpdated)

	assert.Equal(t, 1, calls)
}

func Test_Bus_CancelIsIdempotent(t *testing.T) {
	b := New()
	sub := b.Subscribe(CartUpdated, func() {})

	sub.Cancel()
	assert.NotPanics(t, sub.Cancel)
}

// Package bus provides the process-wide notification channel that keeps
// header badges and product tiles consistent without a shared store.
// Events carry no payload: subscribers re-fetch their own authoritative
// state from the backend.
package bus

import "sync"

// Topic names a notification channel.
type Topic string

const (
	// CartUpdated signals that the cart changed server-side.
	CartUpdated Topic = "cartUpdated"
	// WishlistUpdated signals that the wishlist changed server-side.
	WishlistUpdated Topic = "wishlistUpdated"
	// AuthChanged signals that the stored credential changed.
	AuthChanged Topic = "authChanged"
)

// Bus is an in-process publish/subscribe channel keyed by topic.
// Publish is fire-and-forget; delivery is synchronous on the publishing
// goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]func()
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]func())}
}

// Subscription is a handle to an active subscription. Subscribers must
// call Cancel on teardown to avoid leaks.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers fn to run on every publish to topic, for the
// lifetime of the returned Subscription.
func (b *Bus) Subscribe(topic Topic, fn func()) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func())
	}
	b.subs[topic][id] = fn

	return &Subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}}
}

// Publish notifies every subscriber of topic. There is no payload by
// contract; the event is only a hint that something changed.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	fns := make([]func(), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

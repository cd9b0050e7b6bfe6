package notify

import (
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// CounterFunc receives fresh header counters for a session.
type CounterFunc func(session string, counters domain.Counters)

// CounterSync projects cart and wishlist state onto the header counters and
// pushes them to every subscriber. It holds no counter state of its own.
type CounterSync struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]CounterFunc
}

// NewCounterSync creates a CounterSync with no subscribers.
func NewCounterSync() *CounterSync {
	return &CounterSync{subs: make(map[int]CounterFunc)}
}

// Subscribe registers fn and returns a function that removes it.
func (c *CounterSync) Subscribe(fn CounterFunc) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Refresh computes the counters for the given state, pushes them to every
// subscriber and returns them.
func (c *CounterSync) Refresh(session string, cart domain.Cart, wishlist domain.Wishlist) domain.Counters {
	counters := domain.CountersFor(cart, wishlist)

	c.mu.RLock()
	subs := make([]CounterFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.RUnlock()

	for _, fn := range subs {
		fn(session, counters)
	}
	return counters
}

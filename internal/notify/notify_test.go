package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

func newTestNotifier(depth int, ttl time.Duration) (*Notifier, *time.Time) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	n := NewNotifier(depth, ttl)
	n.nowFunc = func() time.Time { return now }
	return n, &now
}

func messages(notices []domain.Notice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}

// ---------------------------------------------------------------------------
// Notifier
// ---------------------------------------------------------------------------

func TestNotifier_Defaults(t *testing.T) {
	n := NewNotifier(0, 0)
	assert.Equal(t, DefaultDepth, n.depth)
	assert.Equal(t, DefaultTTL, n.ttl)
}

func TestNotifier_FIFO(t *testing.T) {
	n, _ := newTestNotifier(3, time.Second)

	n.Notify("s", domain.Notice{Message: "Studio Pro Headphones added to bag!"})
	n.Notify("s", domain.Notice{Message: "Added to wishlist!", Kind: domain.NoticeInfo})

	got := n.Drain("s")
	assert.Equal(t, []string{"Studio Pro Headphones added to bag!", "Added to wishlist!"}, messages(got))
	assert.Equal(t, domain.NoticeSuccess, got[0].Kind)
	assert.Equal(t, domain.NoticeInfo, got[1].Kind)

	assert.Empty(t, n.Drain("s"))
}

func TestNotifier_FullQueueReplacesOldest(t *testing.T) {
	n, _ := newTestNotifier(2, time.Second)

	n.Notify("s", domain.Notice{Message: "one"})
	n.Notify("s", domain.Notice{Message: "two"})
	n.Notify("s", domain.Notice{Message: "three"})

	assert.Equal(t, []string{"two", "three"}, messages(n.Drain("s")))
}

func TestNotifier_DepthOneReplaces(t *testing.T) {
	n, _ := newTestNotifier(1, time.Second)

	n.Notify("s", domain.Notice{Message: "Added to wishlist!"})
	n.Notify("s", domain.Notice{Message: "Removed from wishlist"})

	assert.Equal(t, []string{"Removed from wishlist"}, messages(n.Drain("s")))
}

func TestNotifier_ExpiredDropped(t *testing.T) {
	n, now := newTestNotifier(3, 2500*time.Millisecond)

	n.Notify("s", domain.Notice{Message: "old"})
	*now = now.Add(2 * time.Second)
	n.Notify("s", domain.Notice{Message: "new"})
	assert.Equal(t, 2, n.Pending("s"))

	*now = now.Add(time.Second)
	assert.Equal(t, []string{"new"}, messages(n.Drain("s")))
}

func TestNotifier_SessionsIsolated(t *testing.T) {
	n, _ := newTestNotifier(3, time.Second)

	n.Notify("a", domain.Notice{Message: "for a"})
	assert.Empty(t, n.Drain("b"))
	assert.Equal(t, []string{"for a"}, messages(n.Drain("a")))
}

func TestNotifier_SweepsAbandonedSessions(t *testing.T) {
	n, now := newTestNotifier(3, time.Second)

	n.Notify("gone", domain.Notice{Message: "never read"})
	*now = now.Add(5 * time.Second)
	n.Notify("here", domain.Notice{Message: "hi"})

	assert.Equal(t, 1, n.sessions())
}

func TestNotifier_ConcurrentUse(t *testing.T) {
	n := NewNotifier(3, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify("s", domain.Notice{Message: "x"})
			_ = n.Pending("s")
		}()
	}
	wg.Wait()

	assert.Len(t, n.Drain("s"), 3)
}

// ---------------------------------------------------------------------------
// CounterSync
// ---------------------------------------------------------------------------

func TestCounterSync_PushesToSubscribers(t *testing.T) {
	cs := NewCounterSync()

	var mu sync.Mutex
	got := map[string]domain.Counters{}
	record := func(tag string) CounterFunc {
		return func(session string, c domain.Counters) {
			mu.Lock()
			got[tag+":"+session] = c
			mu.Unlock()
		}
	}
	cs.Subscribe(record("badge"))
	cs.Subscribe(record("title"))

	cart := domain.Cart{Lines: []domain.CartLine{{ID: 1, Quantity: 2}, {ID: 3, Quantity: 1}}}
	wishlist := domain.NewWishlist([]int{2})

	counters := cs.Refresh("s", cart, wishlist)
	want := domain.Counters{CartQuantity: 3, WishlistSize: 1}
	assert.Equal(t, want, counters)
	assert.Equal(t, want, got["badge:s"])
	assert.Equal(t, want, got["title:s"])
}

func TestCounterSync_Unsubscribe(t *testing.T) {
	cs := NewCounterSync()

	calls := 0
	unsubscribe := cs.Subscribe(func(string, domain.Counters) { calls++ })

	cs.Refresh("s", domain.Cart{}, domain.Wishlist{})
	unsubscribe()
	cs.Refresh("s", domain.Cart{}, domain.Wishlist{})

	require.Equal(t, 1, calls)
}

func TestCounterSync_NoSubscribers(t *testing.T) {
	cs := NewCounterSync()
	assert.Equal(t, domain.Counters{}, cs.Refresh("s", domain.Cart{}, domain.Wishlist{}))
}

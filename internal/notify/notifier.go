package notify

import (
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// Defaults match the storefront toast behavior.
const (
	DefaultDepth = 3
	DefaultTTL   = 2500 * time.Millisecond
)

// Notifier keeps a bounded FIFO queue of notices per session. When a queue
// is full the oldest notice is replaced. Notices expire ttl after they are
// queued; expired notices are never returned.
type Notifier struct {
	mu        sync.Mutex
	queues    map[string][]domain.Notice
	depth     int
	ttl       time.Duration
	lastSweep time.Time
	nowFunc   func() time.Time
}

// NewNotifier creates a Notifier. Non-positive arguments select the defaults.
func NewNotifier(depth int, ttl time.Duration) *Notifier {
	if depth < 1 {
		depth = DefaultDepth
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{
		queues:  make(map[string][]domain.Notice),
		depth:   depth,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Notify queues n for session. A zero ExpiresAt is set to now plus the
// configured lifetime and an empty Kind defaults to success.
func (n *Notifier) Notify(session string, notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.nowFunc()
	n.sweepLocked(now)

	if notice.ExpiresAt.IsZero() {
		notice.ExpiresAt = now.Add(n.ttl)
	}
	if notice.Kind == "" {
		notice.Kind = domain.NoticeSuccess
	}

	q := unexpired(n.queues[session], now)
	if len(q) >= n.depth {
		q = q[len(q)-n.depth+1:]
	}
	n.queues[session] = append(q, notice)
}

// Drain returns the unexpired notices for session in FIFO order and clears
// the queue.
func (n *Notifier) Drain(session string) []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	q := unexpired(n.queues[session], n.nowFunc())
	delete(n.queues, session)
	return q
}

// Pending returns the number of unexpired notices queued for session.
func (n *Notifier) Pending(session string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(unexpired(n.queues[session], n.nowFunc()))
}

// sweepLocked drops queues whose notices have all expired. It runs at most
// once per ttl.
func (n *Notifier) sweepLocked(now time.Time) {
	if now.Sub(n.lastSweep) < n.ttl {
		return
	}
	for session, q := range n.queues {
		if len(unexpired(q, now)) == 0 {
			delete(n.queues, session)
		}
	}
	n.lastSweep = now
}

func (n *Notifier) sessions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queues)
}

func unexpired(q []domain.Notice, now time.Time) []domain.Notice {
	out := make([]domain.Notice, 0, len(q))
	for _, notice := range q {
		if !notice.Expired(now) {
			out = append(out, notice)
		}
	}
	return out
}

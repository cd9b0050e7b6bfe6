package memory

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SnapshotRepository is an in-process repository.SnapshotRepository.
// Expired entries are dropped lazily on read.
type SnapshotRepository struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewSnapshotRepository creates an empty in-memory repository. A zero ttl
// keeps entries until the process exits.
func NewSnapshotRepository(ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{
		entries: make(map[string]entry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func memKey(session, key string) string {
	return session + ":" + key
}

// Get returns a copy of the stored bytes.
func (r *SnapshotRepository) Get(_ context.Context, session, key string) ([]byte, error) {
	k := memKey(session, key)

	r.mu.RLock()
	e, ok := r.entries[k]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("snapshot", key)
	}
	if !e.expiresAt.IsZero() && !r.nowFunc().Before(e.expiresAt) {
		r.mu.Lock()
		if cur, ok := r.entries[k]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(r.entries, k)
		}
		r.mu.Unlock()
		return nil, apperrors.NotFound("snapshot", key)
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Set stores a copy of data.
func (r *SnapshotRepository) Set(_ context.Context, session, key string, data []byte) error {
	e := entry{data: make([]byte, len(data))}
	copy(e.data, data)
	if r.ttl > 0 {
		e.expiresAt = r.nowFunc().Add(r.ttl)
	}

	r.mu.Lock()
	r.entries[memKey(session, key)] = e
	r.mu.Unlock()
	return nil
}

// Delete removes the entry, if any.
func (r *SnapshotRepository) Delete(_ context.Context, session, key string) error {
	r.mu.Lock()
	delete(r.entries, memKey(session, key))
	r.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// read.
func (r *SnapshotRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

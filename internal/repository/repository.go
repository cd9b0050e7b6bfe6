package repository

import "context"

// SnapshotRepository stores serialized snapshots scoped by session.
// Implementations write each value with a single operation so a reader
// never observes a partial snapshot.
type SnapshotRepository interface {
	// Get returns the raw bytes stored under key for session, or an error
	// matching errors.ErrNotFound when nothing is stored.
	Get(ctx context.Context, session, key string) ([]byte, error)

	// Set replaces the value stored under key for session.
	Set(ctx context.Context, session, key string, data []byte) error

	// Delete removes the value stored under key for session.
	Delete(ctx context.Context, session, key string) error
}

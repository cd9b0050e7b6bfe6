package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(0)
	ctx := context.Background()

	_, err := repo.Get(ctx, "s", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "s", "cartData", []byte(`[]`)))
	got, err := repo.Get(ctx, "s", "cartData")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, repo.Delete(ctx, "s", "cartData"))
	_, err = repo.Get(ctx, "s", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSnapshotRepository_CopiesBytes(t *testing.T) {
	repo := NewSnapshotRepository(0)
	ctx := context.Background()

	in := []byte(`[1]`)
	require.NoError(t, repo.Set(ctx, "s", "wishlistData", in))
	in[1] = '9'

	got, err := repo.Get(ctx, "s", "wishlistData")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	got[1] = '7'
	again, _ := repo.Get(ctx, "s", "wishlistData")
	assert.Equal(t, `[1]`, string(again))
}

func TestSnapshotRepository_SessionsAreIsolated(t *testing.T) {
	repo := NewSnapshotRepository(0)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", "cartData", []byte(`[1]`)))
	_, err := repo.Get(ctx, "b", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSnapshotRepository_Expiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := NewSnapshotRepository(time.Hour)
	repo.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "s", "cartData", []byte(`[]`)))

	now = now.Add(59 * time.Minute)
	_, err := repo.Get(ctx, "s", "cartData")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = repo.Get(ctx, "s", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, repo.Len())
}

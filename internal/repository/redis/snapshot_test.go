package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T) (*SnapshotRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewSnapshotRepository(client, 24*time.Hour)
	return repo, mr
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestSnapshotRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("storefront:sess-1:cartData", `[{"id":1,"quantity":2}]`))

	got, err := repo.Get(context.Background(), "sess-1", "cartData")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"quantity":2}]`, string(got))
}

func TestSnapshotRepository_Get_Missing(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "sess-1", "wishlistData")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSnapshotRepository_Get_ConnectionError(t *testing.T) {
	repo, mr := setupTestRedis(t)
	mr.Close()

	_, err := repo.Get(context.Background(), "sess-1", "cartData")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "redis get cartData")
}

// ---------------------------------------------------------------------------
// Set
// ---------------------------------------------------------------------------

func TestSnapshotRepository_Set_WritesWithTTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Set(context.Background(), "sess-1", "wishlistData", []byte(`[2]`)))

	val, err := mr.Get("storefront:sess-1:wishlistData")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, val)
	assert.Equal(t, 24*time.Hour, mr.TTL("storefront:sess-1:wishlistData"))
}

func TestSnapshotRepository_Set_Overwrites(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", "wishlistData", []byte(`[2]`)))
	require.NoError(t, repo.Set(ctx, "sess-1", "wishlistData", []byte(`[]`)))

	got, err := repo.Get(ctx, "sess-1", "wishlistData")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestSnapshotRepository_SessionsAreIsolated(t *testing.T) {
	repo, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", "cartData", []byte(`[1]`)))

	_, err := repo.Get(ctx, "b", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSnapshotRepository_Expires(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", "cartData", []byte(`[]`)))
	mr.FastForward(25 * time.Hour)

	_, err := repo.Get(ctx, "sess-1", "cartData")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestSnapshotRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", "cartData", []byte(`[]`)))
	require.NoError(t, repo.Delete(ctx, "sess-1", "cartData"))
	assert.False(t, mr.Exists("storefront:sess-1:cartData"))

	// Deleting a missing key is not an error.
	require.NoError(t, repo.Delete(ctx, "sess-1", "cartData"))
}

func TestSnapshotRepository_TracesCommands(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	repo, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "sess-1", "cartData", []byte(`[]`)))
	_, err := repo.Get(ctx, "sess-1", "wishlistData")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "redis.SET", spans[0].Name)
	assert.Equal(t, "redis.GET", spans[1].Name)
	assert.Equal(t, codes.Unset, spans[1].Status.Code, "a missing key is not a failed command")
}

package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, PingChecker(client)(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisConfig{Addr: addr})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

func TestDefaultRedisConfig(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultRedisConfig().Addr)
}

func TestTraceCommand_Success(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceCommand(context.Background(), "GET", "storefront:s1:cartData")
	end(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "redis.GET", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)

	attrs := make(map[string]string)
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.Emit()
	}
	assert.Equal(t, "redis", attrs["db.system"])
	assert.Equal(t, "GET", attrs["db.operation"])
	assert.Equal(t, "storefront:s1:cartData", attrs["db.redis.key"])
}

func TestTraceCommand_Error(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceCommand(context.Background(), "SET", "k")
	end(errors.New("connection refused"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "connection refused", spans[0].Status.Description)
}

func TestTraceCommand_SlowCommandLogged(t *testing.T) {
	var buf bytes.Buffer
	SetSlowCommandLogging(time.Nanosecond, slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetSlowCommandLogging(0, nil) })

	_, end := TraceCommand(context.Background(), "DEL", "k")
	time.Sleep(time.Millisecond)
	end(nil)

	assert.Contains(t, buf.String(), "slow redis command")
	assert.Contains(t, buf.String(), "command=DEL")
}

func TestPoolStatsCollector(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewRegistry()
	reg.MustRegister(NewPoolStatsCollector(client, "storefront"))

	expected := `
# HELP redis_pool_total_connections Number of connections in the pool
# TYPE redis_pool_total_connections gauge
redis_pool_total_connections{service="storefront"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "redis_pool_total_connections"))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

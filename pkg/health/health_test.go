package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("snapshots", func(ctx context.Context) error { return fmt.Errorf("down") })

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.Register("snapshots", func(ctx context.Context) error { return nil })
	h.Register("catalog", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["snapshots"].Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
}

func TestReadinessHandler_OneDown(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", func(ctx context.Context) error { return nil })
	h.Register("snapshots", func(ctx context.Context) error { return fmt.Errorf("connection refused") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["catalog"].Status)
	assert.Equal(t, "connection refused", resp.Checks["snapshots"].Error)
}

func TestCheck_NoCheckersIsUp(t *testing.T) {
	resp := NewHandler().Check(context.Background())
	assert.Equal(t, StatusUp, resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestCheck_PassesDeadline(t *testing.T) {
	h := NewHandler()
	h.Register("snapshots", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		if !ok {
			return fmt.Errorf("no deadline")
		}
		return nil
	})

	assert.Equal(t, StatusUp, h.Check(context.Background()).Status)
}

func TestRegister_ReplacesAndNames(t *testing.T) {
	h := NewHandler()
	h.Register("snapshots", func(ctx context.Context) error { return fmt.Errorf("old") })
	h.Register("snapshots", func(ctx context.Context) error { return nil })
	h.Register("catalog", func(ctx context.Context) error { return nil })

	assert.Equal(t, []string{"catalog", "snapshots"}, h.Names())
	assert.Equal(t, StatusUp, h.Check(context.Background()).Status)
}

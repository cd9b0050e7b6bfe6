package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: map[string]int{"cart_quantity": 3}})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"cart_quantity": float64(3)}, resp.Data)
}

func TestWriteError(t *testing.T) {
	type payload struct {
		Delta int `json:"delta" validate:"required"`
	}
	valErr := validator.Validate(payload{})
	require.Error(t, valErr)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"app not found", apperrors.NotFound("product", 42), http.StatusNotFound, "NOT_FOUND"},
		{"index out of range", apperrors.IndexOutOfRange(5, 1), http.StatusNotFound, "INDEX_OUT_OF_RANGE"},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", fmt.Errorf("parse: %w", apperrors.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", apperrors.ErrMalformedState, http.StatusUnprocessableEntity, "MALFORMED_STATE"},
		{"rate limited", apperrors.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"validation", valErr, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", errors.New("redis exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil), tt.err, testLogger())

			assert.Equal(t, tt.wantCode, rec.Code)
			resp := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantBody, resp.Error.Code)
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	type payload struct {
		Delta int `json:"delta" validate:"required"`
	}
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), validator.Validate(payload{}), testLogger())

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Fields, "delta")
}

func TestWriteError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("secret dsn"), testLogger())

	assert.NotContains(t, rec.Body.String(), "secret dsn")
}

func TestWriteError_IncludesCorrelationID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-9")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperrors.NotFound("product", 7), testLogger())

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-9", resp.Error.RequestID)
}

func TestIntParam(t *testing.T) {
	n, err := IntParam("index", " 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = IntParam("delta", "-1")
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	_, err = IntParam("index", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = IntParam("index", "two")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "index must be an integer")
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, WantsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.True(t, WantsJSON(req))

	req.Header.Set("Accept", "text/html,application/json;q=0.9")
	assert.False(t, WantsJSON(req))
}

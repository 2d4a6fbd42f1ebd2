package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwise/internal/platform/jwt"
	"rentwise/pkg/requestcontext"
	"rentwise/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rr := testutil.DoRequest(h, req)
		assert.Equal(t, "req-123", seen)
		assert.Equal(t, "req-123", rr.Header().Get(RequestIDHeader))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		rr := testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "INTERNAL_ERROR")
}

func TestRequireAuth(t *testing.T) {
	validator := jwt.NewValidator("test-key", "")
	var owner string
	h := RequireAuth(validator, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner = requestcontext.OwnerID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := validator.Issue("owner-7", time.Now(), time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := testutil.DoRequest(h, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "owner-7", owner)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/profiles", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED")
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED")
	})
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	}))

	rr := testutil.DoRequest(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "short and stout", rr.Body.String())
}

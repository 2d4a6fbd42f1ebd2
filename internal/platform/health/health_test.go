package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler) (int, report) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var out report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return rr.Code, out
}

func TestHealthy(t *testing.T) {
	h := New(0).
		Add("store", func(context.Context) error { return nil }).
		Add("cache", nil)

	code, out := serve(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, map[string]string{"store": "ok"}, out.Checks)
}

func TestDegraded(t *testing.T) {
	h := New(0).
		Add("store", func(context.Context) error { return nil }).
		Add("cache", func(context.Context) error { return errors.New("connection refused") })

	code, out := serve(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, "unavailable", out.Checks["cache"])
	assert.Equal(t, "ok", out.Checks["store"])
}

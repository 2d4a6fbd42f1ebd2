package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "rentwise/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error hides message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed at 10.0.0.4"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		var body ErrorEnvelope
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Success {
			t.Fatalf("expected success=false")
		}
		if body.Error.Code != "INTERNAL_ERROR" {
			t.Fatalf("expected INTERNAL_ERROR, got %q", body.Error.Code)
		}
		if strings.Contains(body.Error.Message, "10.0.0.4") {
			t.Fatalf("internal details leaked: %q", body.Error.Message)
		}
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("domain error keeps code and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeCannotRemoveOwner, "the agency owner cannot be removed"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		var body ErrorEnvelope
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Error.Code != "CANNOT_REMOVE_OWNER" || body.Error.Message != "the agency owner cannot be removed" {
			t.Fatalf("unexpected error body: %+v", body.Error)
		}
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeAuthenticationRequired:  http.StatusUnauthorized,
		dErrors.CodeInvalidProfileType:      http.StatusBadRequest,
		dErrors.CodeAccessDenied:            http.StatusForbidden,
		dErrors.CodeInsufficientPermissions: http.StatusForbidden,
		dErrors.CodeProfileNotFound:         http.StatusNotFound,
		dErrors.CodeProfileAlreadyExists:    http.StatusConflict,
		dErrors.CodeMemberAlreadyExists:     http.StatusConflict,
		dErrors.CodeCannotDeletePrimary:     http.StatusBadRequest,
		dErrors.CodeCannotDeletePersonal:    http.StatusBadRequest,
	}
	for code, want := range cases {
		if got := StatusFor(code); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

type pingRequest struct {
	Name string `json:"name"`
}

func (p *pingRequest) Validate() error {
	if p.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		w := httptest.NewRecorder()
		req, ok := DecodeJSON[pingRequest](w, r, logger, r.Context(), "req-1")
		if !ok || req.Name != "x" {
			t.Fatalf("expected decoded request, got ok=%v req=%+v", ok, req)
		}
	})

	t.Run("validation failure writes 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		if _, ok := DecodeJSON[pingRequest](w, r, logger, r.Context(), "req-2"); ok {
			t.Fatalf("expected failure")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("malformed body writes 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		w := httptest.NewRecorder()
		if _, ok := DecodeJSON[pingRequest](w, r, logger, r.Context(), "req-3"); ok {
			t.Fatalf("expected failure")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

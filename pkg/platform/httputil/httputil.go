// Package httputil writes the JSON envelopes shared by every endpoint:
//
//	{"success": true, "data": ..., "message": "..."}
//	{"success": false, "error": {"message": "...", "code": "..."}}
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "rentwise/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies decoded by DecodeJSON.
const maxBodyBytes = 1 << 20

// SuccessEnvelope is the body of every successful response.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Validatable is implemented by request bodies that normalize and check
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, SuccessEnvelope{Success: true, Data: data, Message: message})
}

// WriteError translates err into an error envelope. Errors without a domain
// code, and internal errors, are reported with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal server error"
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		code = de.Code
		message = de.Message
	}
	WriteJSON(w, StatusFor(code), ErrorEnvelope{
		Success: false,
		Error:   ErrorDetail{Message: message, Code: string(code)},
	})
}

// StatusFor maps a domain code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeAuthenticationRequired:
		return http.StatusUnauthorized
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidProfileType,
		dErrors.CodeCannotDeletePrimary, dErrors.CodeCannotDeletePersonal,
		dErrors.CodeCannotRemoveOwner, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeAccessDenied, dErrors.CodeInsufficientPermissions:
		return http.StatusForbidden
	case dErrors.CodeProfileNotFound, dErrors.CodeMemberNotFound:
		return http.StatusNotFound
	case dErrors.CodeProfileAlreadyExists, dErrors.CodeMemberAlreadyExists, dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into T and runs Validate when T
// implements Validatable. On failure it writes the error response and
// returns ok=false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}

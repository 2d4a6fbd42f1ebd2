// Package domainerrors carries coded, caller-facing errors. Codes are stable
// machine-readable strings; transport layers map them to status codes.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain outcome.
type Code string

const (
	CodeAuthenticationRequired  Code = "AUTHENTICATION_REQUIRED"
	CodeBadRequest              Code = "BAD_REQUEST"
	CodeValidation              Code = "VALIDATION_ERROR"
	CodeInvalidProfileType      Code = "INVALID_PROFILE_TYPE"
	CodeAccessDenied            Code = "ACCESS_DENIED"
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
	CodeProfileNotFound         Code = "PROFILE_NOT_FOUND"
	CodeMemberNotFound          Code = "MEMBER_NOT_FOUND"
	CodeProfileAlreadyExists    Code = "PROFILE_ALREADY_EXISTS"
	CodeMemberAlreadyExists     Code = "MEMBER_ALREADY_EXISTS"
	CodeConflict                Code = "CONFLICT"
	CodeCannotDeletePrimary     Code = "CANNOT_DELETE_PRIMARY"
	CodeCannotDeletePersonal    Code = "CANNOT_DELETE_PERSONAL"
	CodeCannotRemoveOwner       Code = "CANNOT_REMOVE_OWNER"
	CodeInvariantViolation      Code = "INVARIANT_VIOLATION"
	CodeInternal                Code = "INTERNAL_ERROR"
)

// Error is a domain error with a code and a human message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error. The cause stays
// reachable through errors.Is / errors.As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the outermost domain error in the chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error carries code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Package errors defines the closed set of domain errors returned by the word
// resolution engine and its collaborators.
//
// Services return *Error values; callers match them with errors.Is against the
// sentinels below (matching is by Code, so a custom message still matches):
//
//	if errors.Is(err, errors.ErrQuotaExceeded) {
//	    ...
//	}
//
// Anything that is not an *Error is an unexpected failure (usually storage)
// and must be reported as an internal error.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotAuthorized    Code = "NOT_AUTHORIZED"
	CodeQuotaExceeded    Code = "QUOTA_EXCEEDED"
	CodeCategoryFull     Code = "CATEGORY_FULL"
	CodeAlreadyTracked   Code = "ALREADY_TRACKED"
	CodeLanguageMismatch Code = "LANGUAGE_MISMATCH"
	CodeEnrichmentFailed Code = "ENRICHMENT_FAILED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeValidation       Code = "VALIDATION"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotAuthorized, CodeQuotaExceeded, CodeCategoryFull:
		return http.StatusForbidden
	case CodeAlreadyTracked, CodeAlreadyExists:
		return http.StatusConflict
	case CodeLanguageMismatch:
		return http.StatusUnprocessableEntity
	case CodeEnrichmentFailed:
		return http.StatusBadGateway
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a user-facing message and an optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotAuthorized    = &Error{Code: CodeNotAuthorized, Message: "not authorized"}
	ErrQuotaExceeded    = &Error{Code: CodeQuotaExceeded, Message: "word limit reached"}
	ErrCategoryFull     = &Error{Code: CodeCategoryFull, Message: "category is full"}
	ErrAlreadyTracked   = &Error{Code: CodeAlreadyTracked, Message: "word already exists in your list"}
	ErrLanguageMismatch = &Error{Code: CodeLanguageMismatch, Message: "word does not belong to the target language"}
	ErrEnrichmentFailed = &Error{Code: CodeEnrichmentFailed, Message: "enrichment failed"}
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists    = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
)

// NotAuthorized creates a not authorized error.
func NotAuthorized(msg string) *Error {
	return &Error{Code: CodeNotAuthorized, Message: msg}
}

// QuotaExceeded creates a quota exceeded error.
func QuotaExceeded(msg string) *Error {
	return &Error{Code: CodeQuotaExceeded, Message: msg}
}

// CategoryFull creates a category full error.
func CategoryFull(msg string) *Error {
	return &Error{Code: CodeCategoryFull, Message: msg}
}

// AlreadyTracked creates an already tracked error.
func AlreadyTracked(msg string) *Error {
	return &Error{Code: CodeAlreadyTracked, Message: msg}
}

// LanguageMismatch creates a language mismatch error.
func LanguageMismatch(msg string) *Error {
	return &Error{Code: CodeLanguageMismatch, Message: msg}
}

// LanguageMismatchf creates a language mismatch error with a formatted message.
func LanguageMismatchf(format string, args ...any) *Error {
	return &Error{Code: CodeLanguageMismatch, Message: fmt.Sprintf(format, args...)}
}

// EnrichmentFailed creates an enrichment error carrying the collaborator's message.
func EnrichmentFailed(msg string, cause error) *Error {
	return &Error{Code: CodeEnrichmentFailed, Message: msg, cause: cause}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of a domain error, or "" when err is not one.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

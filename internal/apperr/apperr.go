package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure class independent of its wording.
type Code string

const (
	// Input validation, never retried automatically.
	CodeInvalidMediaType Code = "invalid_media_type"
	CodeFileTooLarge     Code = "file_too_large"
	CodeEmptyImage       Code = "empty_image"
	CodeInvalidLanguage  Code = "invalid_language"

	// Transient infrastructure, retried by the gateway policy.
	CodeUpstreamUnavailable Code = "upstream_unavailable"
	CodeUpstreamTimeout     Code = "upstream_timeout"
	CodeMalformedResponse   Code = "malformed_response"

	// Semantic parse failures. Not auto-retried; the user may retry
	// with a clearer photo.
	CodeNoMenuItems     Code = "no_menu_items"
	CodeInvalidMenuItem Code = "invalid_menu_item"

	// Everything else.
	CodeInternal Code = "internal"
)

// Error carries a machine-readable code, a developer message and a
// user-facing message. Retryable marks failures the gateway may retry.
type Error struct {
	Code        Code
	Message     string
	UserMessage string
	Retryable   bool
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match on the code alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code Code, message, userMessage string) *Error {
	return &Error{Code: code, Message: message, UserMessage: userMessage}
}

func Wrap(code Code, message, userMessage string, cause error) *Error {
	return &Error{Code: code, Message: message, UserMessage: userMessage, cause: cause}
}

// AsRetryable marks the error as retryable and returns it.
func (e *Error) AsRetryable() *Error {
	e.Retryable = true
	return e
}

// IsRetryable reports whether err (anywhere in its chain) is a retryable
// *Error. Unknown error types are treated as non-retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// UserMessageOf extracts the user-facing message, falling back to a
// generic one so internal wording never leaks to the client.
func UserMessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.UserMessage != "" {
		return e.UserMessage
	}
	return "Something went wrong. Please try again."
}

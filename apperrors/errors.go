package apperrors

import (
	"errors"
	"fmt"
)

// Kind is a stable machine-readable error category
type Kind string

const (
	KindAuth                Kind = "auth_failed"
	KindSessionExpired      Kind = "session_expired"
	KindPermission          Kind = "permission_denied"
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation_rejected"
	KindSchemaMismatch      Kind = "schema_mismatch"
	KindUpload              Kind = "upload_failed"
	KindNetwork             Kind = "network_error"
	KindTimeout             Kind = "timeout"
	KindMissingPrecondition Kind = "missing_precondition"
	KindInvalidFileFormat   Kind = "invalid_file_format"
	KindFileSizeExceeded    Kind = "file_size_exceeded"
)

// Error carries a classified failure. Message is safe to show to users,
// Detail holds the raw diagnostic (backend body, cause text) for logging.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a user-safe message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error, keeping its text as diagnostic detail
func Wrap(kind Kind, message string, err error) *Error {
	e := &Error{Kind: kind, Message: message, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// WithDetail attaches raw diagnostic text (e.g. a backend response body)
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// KindOf extracts the Kind from any error; unclassified errors report KindNetwork
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindNetwork
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-safe message of a classified error,
// or a generic fallback for unclassified ones
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred"
}

package errorbank

import (
	"errors"
	"fmt"
)

// Kind enumerates supported application error categories.
type Kind string

const (
	// Fatal tiers: the run cannot proceed past one of these.
	KindNotFound   Kind = "not_found"
	KindParse      Kind = "parse"
	KindConnection Kind = "connection"
	KindSchema     Kind = "schema"
	KindQuery      Kind = "query"

	// Per-record tiers: tallied by the pipeline, never fatal on their own.
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"

	KindInternal Kind = "internal"
)

// AppError captures rich error context shared across the loader.
type AppError struct {
	kind    Kind
	message string
	details map[string]any
	cause   error
}

// Option mutates an AppError during construction.
type Option func(*AppError)

// WithCause attaches an underlying error.
func WithCause(err error) Option {
	return func(appErr *AppError) {
		appErr.cause = err
	}
}

// WithDetail adds a single named detail value.
func WithDetail(key string, value any) Option {
	return func(appErr *AppError) {
		if appErr.details == nil {
			appErr.details = make(map[string]any)
		}
		appErr.details[key] = value
	}
}

// WithDetails merges multiple detail values.
func WithDetails(details map[string]any) Option {
	return func(appErr *AppError) {
		if len(details) == 0 {
			return
		}
		if appErr.details == nil {
			appErr.details = make(map[string]any)
		}
		for k, v := range details {
			appErr.details[k] = v
		}
	}
}

// New constructs a new AppError with the supplied kind and message.
func New(kind Kind, message string, opts ...Option) *AppError {
	if message == "" {
		message = string(kind)
	}
	appErr := &AppError{kind: kind, message: message}
	for _, opt := range opts {
		opt(appErr)
	}
	return appErr
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Kind returns the error category.
func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message returns the human-readable message.
func (e *AppError) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Details returns optional metadata about the error.
func (e *AppError) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.details
}

// ExitCode resolves the process exit status for the error kind. The loader is
// a batch binary; its exit status is the only machine-readable outcome.
func (e *AppError) ExitCode() int {
	if e == nil {
		return 0
	}
	switch e.kind {
	case KindNotFound:
		return 2
	case KindParse:
		return 3
	case KindConnection:
		return 4
	case KindSchema:
		return 5
	case KindQuery:
		return 6
	default:
		return 1
	}
}

// NotFound constructs a missing-input error.
func NotFound(message string, opts ...Option) *AppError {
	return New(KindNotFound, message, opts...)
}

// Parse constructs a malformed-input error.
func Parse(message string, opts ...Option) *AppError {
	return New(KindParse, message, opts...)
}

// Connection constructs a store-connection error.
func Connection(message string, opts ...Option) *AppError {
	return New(KindConnection, message, opts...)
}

// Schema constructs a schema-setup error.
func Schema(message string, opts ...Option) *AppError {
	return New(KindSchema, message, opts...)
}

// Query constructs a store-query error.
func Query(message string, opts ...Option) *AppError {
	return New(KindQuery, message, opts...)
}

// Validation constructs a per-record validation error.
func Validation(message string, opts ...Option) *AppError {
	return New(KindValidation, message, opts...)
}

// Conflict constructs a duplicate-key error.
func Conflict(message string, opts ...Option) *AppError {
	return New(KindConflict, message, opts...)
}

// Internal constructs a generic error.
func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}

// From returns an AppError for any error input, wrapping unexpected values.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error", WithCause(err))
}

// Package errs defines the error taxonomy shared by the service layer and
// the HTTP handlers. Every user-facing failure carries a Kind so handlers
// can map it to a status code without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and retry decisions.
type Kind int

const (
	// KindInternal is an unclassified server-side failure.
	KindInternal Kind = iota

	// KindValidation is malformed or missing input. Never retried.
	KindValidation

	// KindNotFound covers records that are absent or invisible to the
	// caller. Never retried.
	KindNotFound

	// KindPermission is a failed role or ownership check. Never retried.
	KindPermission

	// KindConflict is a state collision such as a duplicate like. Never
	// retried.
	KindConflict

	// KindState is a state-machine or invariant violation. It indicates a
	// bug in a mutation path and is logged, never auto-corrected.
	KindState

	// KindTransient is a backend-unavailable failure, eligible for a
	// bounded number of retries.
	KindTransient
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a static message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, preserving it for errors.Is/As.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind of an error, unwrapping as needed. Unclassified
// errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is classified as not-found.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is classified as a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsPermission reports whether err is classified as permission-denied.
func IsPermission(err error) bool { return KindOf(err) == KindPermission }

// IsConflict reports whether err is classified as a conflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsTransient reports whether err is classified as retryable.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// Sentinel conflicts for the like operation. Handlers distinguish them:
// a self-like is forbidden outright, a duplicate like is a conflict.
var (
	ErrSelfLike     = New(KindConflict, "authors cannot like their own content")
	ErrAlreadyLiked = New(KindConflict, "content already liked by this user")
)

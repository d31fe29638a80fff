// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it without string matching.
type Kind string

const (
	KindValidation              Kind = "VALIDATION_FAILED"
	KindConflict                Kind = "CONFLICT"
	KindNotFound                Kind = "NOT_FOUND"
	KindForbidden               Kind = "FORBIDDEN"
	KindInvalidTransition       Kind = "INVALID_TRANSITION"
	KindResolutionProofRequired Kind = "RESOLUTION_PROOF_REQUIRED"
	KindProofRequired           Kind = "PROOF_REQUIRED"
	KindInvalidOrExpired        Kind = "INVALID_OR_EXPIRED"
	KindAccountConflict         Kind = "ACCOUNT_CONFLICT"
	KindAccountNotFound         Kind = "ACCOUNT_NOT_FOUND"
	KindInvalidToken            Kind = "INVALID_TOKEN"
	KindUnavailable             Kind = "UNAVAILABLE"
	KindRateLimited             Kind = "RATE_LIMITED"
	KindInternal                Kind = "INTERNAL"
)

var (
	ErrNotFound                = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrUnauthorized            = &Error{Kind: KindInvalidToken, Message: "unauthorized"}
	ErrBadRequest              = &Error{Kind: KindValidation, Message: "bad request"}
	ErrInternal                = &Error{Kind: KindInternal, Message: "internal server error"}
	ErrDuplicate               = &Error{Kind: KindConflict, Message: "resource already exists"}
	ErrValidation              = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrForbidden               = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidTransition       = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrResolutionProofRequired = &Error{Kind: KindResolutionProofRequired, Message: "reports can only be resolved by submitting resolution proof"}
	ErrProofRequired           = &Error{Kind: KindProofRequired, Message: "at least one proof photo is required"}
	ErrInvalidOrExpired        = &Error{Kind: KindInvalidOrExpired, Message: "invalid or expired code"}
	ErrAccountConflict         = &Error{Kind: KindAccountConflict, Message: "account already exists"}
	ErrAccountNotFound         = &Error{Kind: KindAccountNotFound, Message: "no account found"}
	ErrInvalidToken            = &Error{Kind: KindInvalidToken, Message: "invalid or expired token"}
	ErrUnavailable             = &Error{Kind: KindUnavailable, Message: "downstream service unavailable"}
	ErrRateLimited             = &Error{Kind: KindRateLimited, Message: "too many requests, try again later"}
)

// Error is a typed failure. Two errors match under errors.Is when their kinds match.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for a ValidationFailed error with a caller-facing message.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf returns the kind of the first typed error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of a typed error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrInternal.Message
}

// Is and As re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

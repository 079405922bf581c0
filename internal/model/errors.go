package model

import (
	"errors"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by stores when a unique constraint is violated.
var ErrConflict = errors.New("conflict")

// ErrorKind is a stable machine-readable error code.
type ErrorKind string

const (
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindTokenExpired       ErrorKind = "TOKEN_EXPIRED"
	KindTokenMalformed     ErrorKind = "TOKEN_MALFORMED"
	KindTokenKindMismatch  ErrorKind = "TOKEN_KIND_MISMATCH"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindTokenInvalid       ErrorKind = "TOKEN_INVALID"

	KindUsedOrMissingRefreshToken ErrorKind = "USED_OR_MISSING_REFRESH_TOKEN"

	KindAccountNotFound   ErrorKind = "ACCOUNT_NOT_FOUND"
	KindDuplicateEmail    ErrorKind = "DUPLICATE_EMAIL"
	KindNotVerified       ErrorKind = "NOT_VERIFIED"
	KindBanned            ErrorKind = "BANNED"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"

	KindForbidden    ErrorKind = "FORBIDDEN"
	KindPostNotFound ErrorKind = "POST_NOT_FOUND"

	KindProviderEmailUnverified ErrorKind = "PROVIDER_EMAIL_UNVERIFIED"
	KindExchangeFailed          ErrorKind = "EXCHANGE_FAILED"

	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
)

// Error is the domain error type. Two errors are equal under errors.Is when
// their kinds match.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewError creates a domain error with a kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a domain error that wraps an underlying cause.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first domain error in the chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthorized       = NewError(KindUnauthorized, "authentication required")
	ErrTokenExpired       = NewError(KindTokenExpired, "token expired")
	ErrTokenMalformed     = NewError(KindTokenMalformed, "token malformed")
	ErrTokenKindMismatch  = NewError(KindTokenKindMismatch, "token kind mismatch")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "email or password is incorrect")
	ErrTokenInvalid       = NewError(KindTokenInvalid, "token is invalid")

	ErrUsedOrMissingRefreshToken = NewError(KindUsedOrMissingRefreshToken, "refresh token is used or does not exist")

	ErrAccountNotFound   = NewError(KindAccountNotFound, "account not found")
	ErrDuplicateEmail    = NewError(KindDuplicateEmail, "email already exists")
	ErrNotVerified       = NewError(KindNotVerified, "account is not verified")
	ErrBanned            = NewError(KindBanned, "account is banned")
	ErrInvalidTransition = NewError(KindInvalidTransition, "invalid account status transition")

	ErrForbidden    = NewError(KindForbidden, "post is not public")
	ErrPostNotFound = NewError(KindPostNotFound, "post not found")

	ErrProviderEmailUnverified = NewError(KindProviderEmailUnverified, "provider email is not verified")
	ErrExchangeFailed          = NewError(KindExchangeFailed, "identity provider exchange failed")

	ErrInvalidArgument = NewError(KindInvalidArgument, "invalid argument")
)

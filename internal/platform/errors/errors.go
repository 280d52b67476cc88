// Package errors provides the failure taxonomy shared by the catalog and
// session services, with HTTP status code mapping for the remote surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a failure for callers and response formatting.
type Kind string

const (
	// KindInvalidArgument indicates missing or malformed input (HTTP 400).
	KindInvalidArgument Kind = "invalid_argument"
	// KindDuplicateUser indicates a username uniqueness violation (HTTP 409).
	KindDuplicateUser Kind = "duplicate_user"
	// KindDuplicateBook indicates an (isbn, owner) uniqueness violation (HTTP 409).
	KindDuplicateBook Kind = "duplicate_book"
	// KindUserNotFound indicates a user lookup miss (HTTP 404).
	KindUserNotFound Kind = "user_not_found"
	// KindBookNotFound indicates a book lookup miss (HTTP 404).
	KindBookNotFound Kind = "book_not_found"
	// KindAuthenticationFailed indicates bad credentials (HTTP 401).
	KindAuthenticationFailed Kind = "authentication_failed"
	// KindUnauthorized indicates a missing, invalid, or insufficient session (HTTP 403).
	KindUnauthorized Kind = "unauthorized"
	// KindRateLimited indicates too many authentication attempts (HTTP 429).
	KindRateLimited Kind = "rate_limited"
	// KindInternal indicates a server-side failure (HTTP 500).
	KindInternal Kind = "internal"
)

// Error is a failure with a kind, a message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for this error's kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindDuplicateUser, KindDuplicateBook:
		return http.StatusConflict
	case KindUserNotFound, KindBookNotFound:
		return http.StatusNotFound
	case KindAuthenticationFailed:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates a new invalid-argument error.
func InvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// DuplicateUser creates a new duplicate-user error.
func DuplicateUser(name string) *Error {
	return &Error{Kind: KindDuplicateUser, Message: fmt.Sprintf("user %q is already registered", name)}
}

// DuplicateBook creates a new duplicate-book error.
func DuplicateBook(isbn, owner string) *Error {
	return &Error{Kind: KindDuplicateBook, Message: fmt.Sprintf("book %s owned by %q is already in the catalog", isbn, owner)}
}

// UserNotFound creates a new user-not-found error.
func UserNotFound(name string) *Error {
	return &Error{Kind: KindUserNotFound, Message: fmt.Sprintf("no user named %q", name)}
}

// BookNotFound creates a new book-not-found error.
func BookNotFound(isbn, owner string) *Error {
	return &Error{Kind: KindBookNotFound, Message: fmt.Sprintf("no book %s owned by %q", isbn, owner)}
}

// AuthenticationFailed creates a new authentication error. The message never
// says whether the username exists.
func AuthenticationFailed(username string) *Error {
	return &Error{Kind: KindAuthenticationFailed, Message: fmt.Sprintf("authentication failed for %q", username)}
}

// Unauthorized creates a new authorization error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// RateLimited creates a new rate-limit error.
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// Internal creates a new internal error wrapping its cause.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Response is the JSON structure sent to clients.
type Response struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

// ToResponse converts an Error to a Response for JSON serialization.
func (e *Error) ToResponse() Response {
	return Response{Error: e.Message, Kind: e.Kind}
}

// AsError converts any error into an *Error, wrapping foreign errors as
// internal failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", err)
}

// FromResponse reconstructs an *Error from a decoded Response, so clients see
// the same kinds the service raised.
func FromResponse(r Response) *Error {
	if r.Kind == "" {
		r.Kind = KindInternal
	}
	return &Error{Kind: r.Kind, Message: r.Error}
}

// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the API layer can pick a status code.
type Kind int

const (
	Unknown Kind = iota
	MissingInput
	AuthRequired
	AuthFailed
	NotFound
	RateLimited
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing_input"
	case AuthRequired:
		return "auth_required"
	case AuthFailed:
		return "auth_failed"
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// StatusCode maps the kind to the HTTP status returned to clients.
func (k Kind) StatusCode() int {
	switch k {
	case MissingInput:
		return http.StatusBadRequest
	case AuthRequired, AuthFailed:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error type surfaced by the story pipeline.
// Message is safe to show to clients; Err holds the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are Unknown.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgUnknown
}

// Client-facing messages.
const (
	MsgMissingUsername = "Username is required"
	MsgTokenRequired   = "GitHub token required. Please add your GitHub Personal Access Token to fetch real data."
	MsgTokenRejected   = "GitHub token required. Please add your GitHub Personal Access Token to access the API."
	MsgUserNotFound    = "GitHub user not found"
	MsgRateLimited     = "GitHub API rate limit exceeded. Please try again later."
	MsgUnknown         = "Failed to fetch GitHub data"
)

func NewMissingUsername() *Error {
	return New(MissingInput, MsgMissingUsername, nil)
}

func NewAuthRequired() *Error {
	return New(AuthRequired, MsgTokenRequired, nil)
}

func NewAuthFailed(err error) *Error {
	return New(AuthFailed, MsgTokenRejected, err)
}

func NewNotFound(err error) *Error {
	return New(NotFound, MsgUserNotFound, err)
}

func NewRateLimited(err error) *Error {
	return New(RateLimited, MsgRateLimited, err)
}

func NewUnknown(err error) *Error {
	return New(Unknown, MsgUnknown, err)
}

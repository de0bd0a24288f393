package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	Validation
	Unauthorized
	Forbidden
	Conflict
)

var kindHTTPStatus = map[Kind]int{
	Internal:     http.StatusInternalServerError,
	NotFound:     http.StatusNotFound,
	Validation:   http.StatusBadRequest,
	Unauthorized: http.StatusUnauthorized,
	Forbidden:    http.StatusForbidden,
	Conflict:     http.StatusConflict,
}

var kindMessage = map[Kind]string{
	Internal:     "internal error",
	NotFound:     "not found",
	Validation:   "invalid request",
	Unauthorized: "unauthorized",
	Forbidden:    "forbidden",
	Conflict:     "conflict",
}

// Error carries a Kind, a message that is safe to show to clients and the
// underlying cause, which never leaves the process.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message() + ": " + e.Err.Error()
	}
	return e.Message()
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the client facing text.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return kindMessage[e.Kind]
}

func (e *Error) HTTPStatus() int {
	return kindHTTPStatus[e.Kind]
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NewNotFound(msg string) *Error     { return New(NotFound, msg) }
func NewValidation(msg string) *Error   { return New(Validation, msg) }
func NewUnauthorized(msg string) *Error { return New(Unauthorized, msg) }
func NewForbidden(msg string) *Error    { return New(Forbidden, msg) }

// Upstream wraps a failure of the document store or another collaborator.
func Upstream(msg string, err error) *Error {
	return Wrap(Internal, msg, err)
}

// From returns the *Error in err's chain, or an Internal error wrapping err.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(Internal, "", err)
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

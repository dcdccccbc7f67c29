package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure into the small set of categories the HTTP
// layer knows how to map. Anything uncategorized is a Dependency
// failure: an external system misbehaved for reasons opaque to us.
type Kind int

const (
	Dependency Kind = iota
	Validation
	Unauthorized
	NotFound
	Conflict
)

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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf walks the chain looking for an *Error. Unclassified errors
// count as Dependency failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Dependency
}

// Message returns the categorized message, or a generic one for
// unclassified errors so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps a failure to the response code for the default case.
// Some handlers override (a duplicate upload is 409, a too-large file
// 413); those stay local to the handler.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

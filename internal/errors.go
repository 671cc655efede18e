package internal

import (
	"errors"
	"net/http"
)

// ErrorKind classifies request-scoped failures. Nothing here is fatal to
// the process; every failure is scoped to a single request.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
	KindUnauthorized
	KindUnavailable
)

type AppError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Message: msg, Code: HTTPStatus(kind), Err: err}
}

func NotFoundError(msg string) *AppError  { return newAppError(KindNotFound, msg, nil) }
func InvalidError(msg string) *AppError   { return newAppError(KindInvalidArgument, msg, nil) }
func ConflictError(msg string) *AppError  { return newAppError(KindConflict, msg, nil) }
func UnauthorizedError(msg string) *AppError {
	return newAppError(KindUnauthorized, msg, nil)
}
func InternalError(msg string, err error) *AppError {
	return newAppError(KindInternal, msg, err)
}

func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) ErrorKind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return KindInternal
}

// AsAppError normalizes any error into an AppError for the response
// envelope, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	return InternalError("internal error", err)
}

package web

import (
	"errors"
	"net/http"
)

// Set of error variables for returning on operations.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("session expired, please sign in again")
	ErrConflict            = errors.New("conflicting request")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("upstream request failed")
)

// ErrorResponse is the form used for API responses from failures in the API.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Error is used to pass an error during the request through the
// application with web specific context.
type Error struct {
	Err    error
	Status int
	Kind   string
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// NewKindError is NewRequestError with a machine readable kind the client can branch on.
func NewKindError(err error, status int, kind string) error {
	return &Error{Err: err, Status: status, Kind: kind}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (err *Error) Error() string {
	return err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// shutdown is a type used to help with the graceful termination of the service.
type shutdown struct {
	Message string
}

// NewShutdownError returns an error that causes the framework to signal
// a graceful shutdown.
func NewShutdownError(message string) error {
	return &shutdown{message}
}

// Error is the implementation of the error interface.
func (s *shutdown) Error() string {
	return s.Message
}

// IsShutdown checks to see if the shutdown error is contained
// in the specified error value.
func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}

// TranslateError checks whether the error is defined in our errors set and return the related http status code.
// this function should be used only inside handlers.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBadRequest):
		return NewRequestError(err, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		return NewRequestError(err, http.StatusNotFound)
	case errors.Is(err, ErrUnauthorized):
		return NewRequestError(err, http.StatusUnauthorized)
	case errors.Is(err, ErrConflict):
		return NewRequestError(err, http.StatusConflict)
	case errors.Is(err, ErrBadGateway):
		return NewRequestError(err, http.StatusBadGateway)
	case errors.Is(err, ErrInternalServerError):
		return NewRequestError(err, http.StatusInternalServerError)
	}

	return nil
}

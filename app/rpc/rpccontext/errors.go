package rpccontext

import (
	"fmt"
	"net/http"
)

// HandlerError is an error returned from an RPC handler. It is sent to the
// client as is, with ErrorCode as the HTTP status.
type HandlerError struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (hErr *HandlerError) Error() string {
	return hErr.ErrorMessage
}

// NewHandlerError returns a HandlerError with the given code and message
func NewHandlerError(code int, message string) *HandlerError {
	return &HandlerError{
		ErrorCode:    code,
		ErrorMessage: message,
	}
}

// NewHandlerErrorf returns a HandlerError with the given code and a
// message formatted according to a format specifier
func NewHandlerErrorf(code int, format string, args ...interface{}) *HandlerError {
	return NewHandlerError(code, fmt.Sprintf(format, args...))
}

// NewNotFoundError returns a 404 HandlerError
func NewNotFoundError(format string, args ...interface{}) *HandlerError {
	return NewHandlerErrorf(http.StatusNotFound, format, args...)
}

// NewBadRequestError returns a 400 HandlerError
func NewBadRequestError(format string, args ...interface{}) *HandlerError {
	return NewHandlerErrorf(http.StatusBadRequest, format, args...)
}

package result

import (
	"errors"
	"net/http"
)

// Result is the uniform response envelope returned by every service operation.
type Result struct {
	Code   int               `json:"code"`
	Msg    string            `json:"msg"`
	Data   any               `json:"data,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OK builds a 200 envelope. data is optional.
func OK(data ...any) Result {
	return build(http.StatusOK, "OK", data)
}

// Created builds a 201 envelope. data is optional.
func Created(data ...any) Result {
	return build(http.StatusCreated, "Created", data)
}

// Err builds an envelope for an expected failure.
func Err(code int, msg string, data ...any) Result {
	return build(code, msg, data)
}

// InternalErr builds the generic 500 envelope. Callers log the cause themselves.
func InternalErr() Result {
	return Result{Code: http.StatusInternalServerError, Msg: "Internal Error"}
}

// BadInput builds a 422 envelope with one message per invalid field.
func BadInput(fields map[string]string) Result {
	return Result{
		Code:   http.StatusUnprocessableEntity,
		Msg:    "Unprocessable Entity",
		Errors: fields,
	}
}

func build(code int, msg string, data []any) Result {
	r := Result{Code: code, Msg: msg}
	if len(data) > 0 && data[0] != nil {
		r.Data = data[0]
	}
	return r
}

// Error is a domain error with a stable status code and user-facing message.
type Error struct {
	Status int
	Msg    string
}

// NewError creates a domain error.
func NewError(status int, msg string) *Error {
	return &Error{Status: status, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

// FromError maps a domain error to its envelope. Any other error becomes InternalErr.
func FromError(err error) Result {
	var de *Error
	if errors.As(err, &de) {
		return Err(de.Status, de.Msg)
	}
	return InternalErr()
}

// IsDomain reports whether err carries a domain error.
func IsDomain(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

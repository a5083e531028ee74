package apierr

import (
	"fmt"
	"net/http"
)

const (
	CodeNotFound    = "not_found"
	CodeValidation  = "validation"
	CodeRateLimited = "rate_limited"
	CodeStore       = "store"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s", msg))
}

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf("%s", msg))
}

func Store(err error) *Error {
	return New(http.StatusInternalServerError, CodeStore, err)
}

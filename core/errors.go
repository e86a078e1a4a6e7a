package core

import (
	"errors"
	"fmt"
)

// Error codes used throughout folio.
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed
	ECONNECTION int = 124 // remote resource not reachable
	EINTERNAL   int = 125 // internal error
)

func codeText(code int) string {
	switch code {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission error"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error carrying an error code and a message suitable for
// presentation to users.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type appError struct {
	error
	code int
	msg  string
}

var _ AppError = appError{}

func (e appError) Unwrap() error { return e.error }

func (e appError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e appError) ErrorCode() int { return e.code }

func (e appError) UserMessage() string { return e.msg }

// Error creates an error from an error code and a user message.
func Error(code int, format string, v ...interface{}) error {
	return appError{
		errors.New(codeText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// WrapError wraps err, attaching an error code and a user message.
// A nil err is replaced by the code's generic error text.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(codeText(code))
	}
	return appError{err, code, fmt.Sprintf(format, v...)}
}

// Code returns the error code associated with err, EINTERNAL if err carries
// none, NOERROR for a nil err.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with err, falling back to
// the generic text for the error's code.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return codeText(Code(err))
}

// Package apperr defines the error type every store and validation
// function returns. Handlers read Code and Message and nothing else.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindConflict
	KindNotFound
)

// GenericMessage is what clients see for any internal failure.
const GenericMessage = "internal server error"

type Error struct {
	Kind    Kind
	Code    int
	Message string
	// Err is the underlying cause. It is logged, never sent to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Code: http.StatusUnauthorized, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Code: http.StatusConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: msg}
}

// Internal wraps cause under a client-safe message. An empty msg falls back
// to GenericMessage.
func Internal(msg string, cause error) *Error {
	if msg == "" {
		msg = GenericMessage
	}
	return &Error{Kind: KindInternal, Code: http.StatusInternalServerError, Message: msg, Err: cause}
}

// From normalizes any error into an *Error. Unrecognized errors become
// internal errors with the generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(GenericMessage, err)
}

func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Internal wraps an unexpected failure. Exceptions pass through untouched so
// that a not-found or validation error keeps its status.
func Internal(message string, err error) error {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return err
	}
	return &Exception{
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a client.
func PublicMessage(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

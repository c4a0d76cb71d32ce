package salonapi

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

var (
	// ErrUnauthorized matches any 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches any 404 response.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches any 409 response.
	ErrConflict = errors.New("conflict")
)

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("api: %d %s", e.Code, msg)
}

// Is maps well known status codes onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrConflict:
		return e.Code == http.StatusConflict
	}
	return false
}

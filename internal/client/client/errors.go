package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/refresh"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrThrottled    = errors.New("too many requests")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
	// ErrRejected marks a 2xx response whose envelope reports success=false.
	ErrRejected = errors.New("request rejected")

	ErrRefreshFailed = refresh.ErrRefreshFailed
	ErrNoToken       = refresh.ErrNoToken
)

// ThrottledMessage is shown to the user on every 429.
const ThrottledMessage = "Too many attempts. Please try again later."

// APIError is a response the server answered with an error.
type APIError struct {
	StatusCode int
	// Message is the server's message, or the status text when it sent none.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrThrottled
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case e.StatusCode >= 500:
		return ErrServer
	case e.StatusCode >= 200 && e.StatusCode < 300:
		return ErrRejected
	default:
		return nil
	}
}

func newAPIError(status int, msg string) *APIError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

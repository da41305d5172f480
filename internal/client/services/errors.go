package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
)

// ErrInvalidInput is returned by resource services for input rejected
// before it reaches the server.
var ErrInvalidInput = errors.New("invalid input")

type AuthErrorKind string

const (
	KindCredential     AuthErrorKind = "credential"
	KindValidation     AuthErrorKind = "validation"
	KindThrottled      AuthErrorKind = "throttled"
	KindNetwork        AuthErrorKind = "network"
	KindSessionExpired AuthErrorKind = "session-expired"
	KindUnknown        AuthErrorKind = "unknown"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidDetails     = "Please enter valid details"
	MsgThrottled          = client.ThrottledMessage
	MsgNoResponse         = "No response from server. Please check your connection."
	MsgSessionExpired     = "Your session has expired. Please log in again."
	MsgUnknown            = "Something went wrong. Please try again."
	MsgNoToken            = "No token received from server"
	MsgNoUser             = "Invalid user data received from server"
)

// AuthError is what the session manager returns for every failed
// operation. Message is suitable for showing to the user.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// classify maps a client error onto an AuthError. A 401 only means bad
// credentials when credentials were just submitted.
func classify(err error, credentials bool) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}

	var apiErr *client.APIError
	serverMsg := ""
	if errors.As(err, &apiErr) {
		serverMsg = apiErr.Message
	}

	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, client.ErrRefreshFailed):
		return &AuthError{Kind: KindSessionExpired, Message: MsgSessionExpired, Err: err}
	case errors.Is(err, client.ErrThrottled):
		return &AuthError{Kind: KindThrottled, Message: MsgThrottled, Err: err}
	case errors.Is(err, client.ErrUnavailable):
		return &AuthError{Kind: KindNetwork, Message: MsgNoResponse, Err: err}
	case errors.Is(err, client.ErrUnauthorized) && credentials:
		return &AuthError{Kind: KindCredential, Message: MsgInvalidCredentials, Err: err}
	case errors.Is(err, client.ErrBadRequest):
		return &AuthError{Kind: KindValidation, Message: orDefault(serverMsg, MsgInvalidDetails), Err: err}
	case errors.As(err, &verrs):
		return &AuthError{Kind: KindValidation, Message: MsgInvalidDetails, Err: err}
	default:
		return &AuthError{Kind: KindUnknown, Message: orDefault(serverMsg, MsgUnknown), Err: err}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

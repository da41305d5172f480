// Package services contains the application services of the job board
// client.
//
// SessionManager owns the signed-in identity: login, registration, logout
// and the startup authentication check. It is the only writer of the
// in-memory session; the token store underneath is shared with the HTTP
// client, which updates it when a token is refreshed.
//
// JobService, ApplicationService, CompanyService, AdminService and
// ProfileService are thin request/response wrappers over the same client.
// Input that can be checked locally is validated before any network call.
package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
)

// API is the part of the HTTP client the services use.
type API interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
	Refresh(ctx context.Context) (string, error)
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

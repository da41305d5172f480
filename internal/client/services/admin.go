package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type AdminService struct {
	api API
}

func NewAdminService(api API) *AdminService {
	return &AdminService{api: api}
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	return fetchList[models.User](ctx, s.api, client.Request{Method: http.MethodGet, Path: "admin/users"})
}

func (s *AdminService) UpdateUserRole(ctx context.Context, userID string, role models.Role) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	switch role {
	case models.RoleSeeker, models.RoleCompany, models.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return send(ctx, s.api, client.Request{
		Method: http.MethodPatch,
		Path:   path("admin/users/%s/role", userID),
		Body:   map[string]string{"role": role.Wire()},
	})
}

func (s *AdminService) Stats(ctx context.Context) (models.Stats, error) {
	return fetch[models.Stats](ctx, s.api, client.Request{Method: http.MethodGet, Path: "admin/stats"})
}

func (s *AdminService) UpdateApplicationStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	if err := requireID("application id", applicationID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown application status %q", ErrInvalidInput, status)
	}
	a, err := fetch[models.Application](ctx, s.api, client.Request{
		Method: http.MethodPatch,
		Path:   path("admin/applications/%s/status", applicationID),
		Body:   map[string]string{"status": string(status)},
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

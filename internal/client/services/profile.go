package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type ProfileService struct {
	api API
}

func NewProfileService(api API) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	p, err := fetch[models.Profile](ctx, s.api, client.Request{Method: http.MethodGet, Path: "user/profile"})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) Update(ctx context.Context, p models.Profile) (*models.Profile, error) {
	out, err := fetch[models.Profile](ctx, s.api, client.Request{Method: http.MethodPut, Path: "user/profile", Body: p})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

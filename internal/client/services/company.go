package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type CompanyService struct {
	api      API
	validate *validator.Validate
}

func NewCompanyService(api API) *CompanyService {
	return &CompanyService{api: api, validate: newValidator()}
}

func (s *CompanyService) Profile(ctx context.Context) (*models.CompanyProfile, error) {
	p, err := fetch[models.CompanyProfile](ctx, s.api, client.Request{Method: http.MethodGet, Path: "company/profile"})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CompanyService) UpdateProfile(ctx context.Context, p models.CompanyProfile) (*models.CompanyProfile, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, invalid(err)
	}
	out, err := fetch[models.CompanyProfile](ctx, s.api, client.Request{Method: http.MethodPut, Path: "company/profile", Body: p})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Jobs lists the company's own listings. Zero page or limit and an empty
// status are omitted from the query.
func (s *CompanyService) Jobs(ctx context.Context, page, limit int, status string) (*models.JobPage, error) {
	q := map[string]string{}
	if page > 0 {
		q["page"] = strconv.Itoa(page)
	}
	if limit > 0 {
		q["limit"] = strconv.Itoa(limit)
	}
	switch status {
	case "":
	case models.JobStatusOpen, models.JobStatusClosed, models.JobStatusDraft:
		q["status"] = status
	default:
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidInput, status)
	}

	p, err := fetch[models.JobPage](ctx, s.api, client.Request{Method: http.MethodGet, Path: "company/jobs", Query: q})
	if err != nil {
		return nil, err
	}
	return normalizePage(p), nil
}

func (s *CompanyService) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	j, err := fetch[models.Job](ctx, s.api, client.Request{Method: http.MethodPost, Path: "company/jobs", Body: in})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *CompanyService) Applicants(ctx context.Context, jobID string) ([]models.Application, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	return fetchList[models.Application](ctx, s.api, client.Request{
		Method: http.MethodGet,
		Path:   path("company/jobs/%s/applications", jobID),
	})
}

func (s *CompanyService) UpdateApplicationStatus(ctx context.Context, jobID, applicationID string, status models.ApplicationStatus) error {
	if err := requireID("job id", jobID); err != nil {
		return err
	}
	if err := requireID("application id", applicationID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown application status %q", ErrInvalidInput, status)
	}
	return send(ctx, s.api, client.Request{
		Method: http.MethodPatch,
		Path:   path("company/jobs/%s/applications/%s", jobID, applicationID),
		Body:   map[string]string{"status": string(status)},
	})
}

func (s *CompanyService) Stats(ctx context.Context) (models.Stats, error) {
	return fetch[models.Stats](ctx, s.api, client.Request{Method: http.MethodGet, Path: "company/stats"})
}

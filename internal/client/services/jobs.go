package services

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type JobService struct {
	api      API
	validate *validator.Validate
}

func NewJobService(api API) *JobService {
	return &JobService{api: api, validate: newValidator()}
}

// List searches listings. Missing pagination is reported as a single page.
func (s *JobService) List(ctx context.Context, page int, f models.JobFilter) (*models.JobPage, error) {
	p, err := fetch[models.JobPage](ctx, s.api, client.Request{
		Method: http.MethodGet,
		Path:   "jobs",
		Query:  f.Params(page),
	})
	if err != nil {
		return nil, err
	}
	return normalizePage(p), nil
}

func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	if err := requireID("job id", id); err != nil {
		return nil, err
	}
	j, err := fetch[models.Job](ctx, s.api, client.Request{Method: http.MethodGet, Path: path("jobs/%s", id)})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *JobService) Create(ctx context.Context, in models.JobInput) (*models.Job, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	j, err := fetch[models.Job](ctx, s.api, client.Request{Method: http.MethodPost, Path: "jobs", Body: in})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *JobService) Update(ctx context.Context, id string, in models.JobInput) (*models.Job, error) {
	if err := requireID("job id", id); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	j, err := fetch[models.Job](ctx, s.api, client.Request{Method: http.MethodPut, Path: path("jobs/%s", id), Body: in})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := requireID("job id", id); err != nil {
		return err
	}
	return send(ctx, s.api, client.Request{Method: http.MethodDelete, Path: path("jobs/%s", id)})
}

// Recommendations returns the server's picks for the signed-in seeker.
func (s *JobService) Recommendations(ctx context.Context) ([]models.Job, error) {
	return fetchList[models.Job](ctx, s.api, client.Request{Method: http.MethodGet, Path: "jobs/recommendations"})
}

func normalizePage(p models.JobPage) *models.JobPage {
	if p.Jobs == nil {
		p.Jobs = []models.Job{}
	}
	if p.Pagination == (models.Pagination{}) {
		p.Pagination = models.DefaultPagination()
	}
	return &p
}

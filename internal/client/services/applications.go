package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

const uploadField = "file"

type ApplicationService struct {
	api API
}

func NewApplicationService(api API) *ApplicationService {
	return &ApplicationService{api: api}
}

type applyRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
	Resume      string `json:"resume"`
}

func (s *ApplicationService) Apply(ctx context.Context, jobID, coverLetter, resumeURL string) (*models.Application, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	a, err := fetch[models.Application](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "applications",
		Body:   applyRequest{JobID: jobID, CoverLetter: coverLetter, Resume: resumeURL},
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Mine lists the signed-in seeker's applications.
func (s *ApplicationService) Mine(ctx context.Context) ([]models.Application, error) {
	return fetchList[models.Application](ctx, s.api, client.Request{Method: http.MethodGet, Path: "user/applications"})
}

// UploadResume sends the file and returns the URL the server stored it at.
func (s *ApplicationService) UploadResume(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if name == "" {
		name = "resume"
	}
	up, err := fetch[models.Upload](ctx, s.api, client.Request{
		Method: http.MethodPost,
		Path:   "uploads",
		File:   &client.File{Field: uploadField, Name: filepath.Base(name), Data: data},
	})
	if err != nil {
		return "", err
	}
	if up.URL == "" {
		return "", fmt.Errorf("upload %s: server returned no url", name)
	}
	return up.URL, nil
}

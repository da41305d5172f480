package devapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type applyRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	CoverLetter string `json:"coverLetter"`
	Resume      string `json:"resume"`
}

func (s *Server) apply(c echo.Context) error {
	var req applyRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	ap, err := s.store.apply(currentUser(c).ID, req.JobID, req.CoverLetter, req.Resume)
	switch {
	case errors.Is(err, ErrNotFound):
		return fail(c, http.StatusNotFound, "Job not found")
	case errors.Is(err, ErrClosed):
		return fail(c, http.StatusBadRequest, "This job is no longer accepting applications")
	case errors.Is(err, ErrAlreadyExists):
		return fail(c, http.StatusBadRequest, "You have already applied for this job")
	case err != nil:
		return err
	}
	return respond(c, http.StatusCreated, ap)
}

func (s *Server) myApplications(c echo.Context) error {
	uid := currentUser(c).ID
	apps := s.store.applicationsWhere(func(ap *models.Application) bool { return ap.UserID == uid })
	for i := range apps {
		apps[i].User = nil
	}
	return respond(c, http.StatusOK, apps)
}

func (s *Server) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "No file uploaded")
	}
	if fh.Size > maxUploadSize {
		return fail(c, http.StatusBadRequest, "File too large")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxUploadSize {
		return fail(c, http.StatusBadRequest, "File too large")
	}

	name := filepath.Base(fh.Filename)
	id := s.store.saveUpload(name, data)
	return respond(c, http.StatusCreated, models.Upload{
		URL: fmt.Sprintf("/uploads/%s/%s", id, url.PathEscape(name)),
	})
}

func (s *Server) serveUpload(c echo.Context) error {
	up, ok := s.store.upload(c.Param("id"))
	if !ok {
		return fail(c, http.StatusNotFound, "File not found")
	}
	return c.Blob(http.StatusOK, http.DetectContentType(up.data), up.data)
}

package devapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

type statusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=PENDING REVIEWING ACCEPTED REJECTED"`
}

func (s *Server) getCompanyProfile(c echo.Context) error {
	p, err := s.store.companyProfile(currentUser(c).ID)
	if err != nil {
		return fail(c, http.StatusNotFound, "Company profile not found")
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) updateCompanyProfile(c echo.Context) error {
	var p models.CompanyProfile
	if handled, err := bindValid(c, &p); handled {
		return err
	}
	out, err := s.store.setCompanyProfile(currentUser(c).ID, p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

func (s *Server) companyJobs(c echo.Context) error {
	var (
		page, limit int
		status      string
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		String("status", &status).
		BindError()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid query parameters")
	}

	uid := currentUser(c).ID
	jobs := s.store.listJobs(func(j models.Job, owner string) bool {
		return owner == uid && (status == "" || j.Status == status)
	})
	return respond(c, http.StatusOK, paginate(jobs, page, limit))
}

// ownJob reports whether the job exists and belongs to the caller, writing
// the error response otherwise.
func (s *Server) ownJob(c echo.Context, jobID string) (bool, error) {
	_, owner, err := s.store.job(jobID)
	if err != nil {
		return false, fail(c, http.StatusNotFound, "Job not found")
	}
	if owner != currentUser(c).ID {
		return false, fail(c, http.StatusForbidden, "You do not own this job")
	}
	return true, nil
}

func (s *Server) jobApplications(c echo.Context) error {
	jobID := c.Param("id")
	if ok, err := s.ownJob(c, jobID); !ok {
		return err
	}
	apps := s.store.applicationsWhere(func(ap *models.Application) bool { return ap.JobID == jobID })
	return respond(c, http.StatusOK, apps)
}

func (s *Server) companySetStatus(c echo.Context) error {
	jobID := c.Param("id")
	if ok, err := s.ownJob(c, jobID); !ok {
		return err
	}
	var req statusRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	ap, err := s.store.setApplicationStatus(c.Param("applicationId"), jobID, req.Status)
	if errors.Is(err, ErrNotFound) {
		return fail(c, http.StatusNotFound, "Application not found")
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ap)
}

func (s *Server) companyStats(c echo.Context) error {
	n := s.store.tally(currentUser(c).ID)
	return respond(c, http.StatusOK, map[string]int{
		"totalJobs":           n.jobs,
		"activeJobs":          n.openJobs,
		"totalApplications":   n.applications,
		"pendingApplications": n.pending,
	})
}

package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

const (
	defaultPageSize     = 10
	maxPageSize         = 50
	recommendationLimit = 5
)

type jobQuery struct {
	page, limit     int
	search          string
	location        string
	category        string
	experienceLevel string
	employmentType  string
	salaryMin       float64
	salaryMax       float64
	remote          *bool
}

func parseJobQuery(c echo.Context) (jobQuery, error) {
	var (
		q      jobQuery
		remote bool
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &q.page).
		Int("limit", &q.limit).
		String("search", &q.search).
		String("location", &q.location).
		String("category", &q.category).
		String("experienceLevel", &q.experienceLevel).
		String("employmentType", &q.employmentType).
		Float64("salary_min", &q.salaryMin).
		Float64("salary_max", &q.salaryMax).
		Bool("remote", &remote).
		BindError()
	if err != nil {
		return q, err
	}
	if c.QueryParam("remote") != "" {
		q.remote = &remote
	}
	return q, nil
}

func (q jobQuery) matches(j models.Job) bool {
	if q.search != "" {
		needle := strings.ToLower(q.search)
		hay := strings.ToLower(j.Title + " " + j.Description + " " + j.Company)
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	if q.location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(q.location)) {
		return false
	}
	if q.category != "" && !strings.EqualFold(j.Category, q.category) {
		return false
	}
	if q.experienceLevel != "" && !strings.EqualFold(j.ExperienceLevel, q.experienceLevel) {
		return false
	}
	if q.employmentType != "" && !strings.EqualFold(j.EmploymentType, q.employmentType) {
		return false
	}
	if q.salaryMin > 0 && (j.Salary == nil || *j.Salary < q.salaryMin) {
		return false
	}
	if q.salaryMax > 0 && (j.Salary == nil || *j.Salary > q.salaryMax) {
		return false
	}
	if q.remote != nil && j.Remote != *q.remote {
		return false
	}
	return true
}

// paginate cuts one page out of jobs. Out of range pages come back empty.
func paginate(jobs []models.Job, page, limit int) models.JobPage {
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	if page < 1 {
		page = 1
	}

	total := len(jobs)
	pages := max((total+limit-1)/limit, 1)

	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	out := make([]models.Job, end-start)
	copy(out, jobs[start:end])

	return models.JobPage{
		Jobs: out,
		Pagination: models.Pagination{
			Total:   total,
			Page:    page,
			Pages:   pages,
			Limit:   limit,
			HasMore: page < pages,
		},
	}
}

func (s *Server) listJobs(c echo.Context) error {
	q, err := parseJobQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid query parameters")
	}

	jobs := s.store.listJobs(func(j models.Job, _ string) bool {
		return j.Status == models.JobStatusOpen && q.matches(j)
	})
	return respond(c, http.StatusOK, paginate(jobs, q.page, q.limit))
}

// recommendations offers open listings the caller has not applied to yet.
func (s *Server) recommendations(c echo.Context) error {
	u := currentUser(c)

	applied := map[string]bool{}
	for _, ap := range s.store.applicationsWhere(func(ap *models.Application) bool { return ap.UserID == u.ID }) {
		applied[ap.JobID] = true
	}

	jobs := s.store.listJobs(func(j models.Job, _ string) bool {
		return j.Status == models.JobStatusOpen && !applied[j.ID]
	})
	if len(jobs) > recommendationLimit {
		jobs = jobs[:recommendationLimit]
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return respond(c, http.StatusOK, jobs)
}

func (s *Server) getJob(c echo.Context) error {
	j, _, err := s.store.job(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "Job not found")
	}
	return respond(c, http.StatusOK, j)
}

func (s *Server) createJob(c echo.Context) error {
	var in models.JobInput
	if handled, err := bindValid(c, &in); handled {
		return err
	}

	j := s.store.createJob(currentUser(c).ID, in)
	s.logger.Info(c.Request().Context(), "Job created", "job_id", j.ID)
	return respond(c, http.StatusCreated, j)
}

func (s *Server) updateJob(c echo.Context) error {
	var in models.JobInput
	if handled, err := bindValid(c, &in); handled {
		return err
	}

	u := currentUser(c)
	j, err := s.store.editJob(c.Param("id"), u.ID, u.Role == models.WireRoleAdmin, func(rec *jobRecord) {
		applyJobInput(rec, in)
	})
	if err != nil {
		return jobError(c, err)
	}
	return respond(c, http.StatusOK, j)
}

func (s *Server) deleteJob(c echo.Context) error {
	u := currentUser(c)
	if err := s.store.deleteJob(c.Param("id"), u.ID, u.Role == models.WireRoleAdmin); err != nil {
		return jobError(c, err)
	}
	return respondMessage(c, http.StatusOK, "Job deleted")
}

func jobError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fail(c, http.StatusNotFound, "Job not found")
	case errors.Is(err, ErrForbidden):
		return fail(c, http.StatusForbidden, "You do not own this job")
	default:
		return err
	}
}

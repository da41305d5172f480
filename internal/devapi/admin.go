package devapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER COMPANY ADMIN"`
}

func (s *Server) adminUsers(c echo.Context) error {
	return respond(c, http.StatusOK, s.store.users())
}

func (s *Server) adminSetRole(c echo.Context) error {
	var req roleRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	u, err := s.store.setRole(c.Param("id"), req.Role)
	if errors.Is(err, ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	s.logger.Info(c.Request().Context(), "Role changed", "user_id", u.ID, "role", u.Role)
	return respond(c, http.StatusOK, u)
}

func (s *Server) adminStats(c echo.Context) error {
	n := s.store.tally("")
	return respond(c, http.StatusOK, map[string]int{
		"totalUsers":        n.users,
		"totalCompanies":    n.companies,
		"totalJobs":         n.jobs,
		"activeJobs":        n.openJobs,
		"totalApplications": n.applications,
	})
}

func (s *Server) adminSetStatus(c echo.Context) error {
	var req statusRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	ap, err := s.store.setApplicationStatus(c.Param("id"), "", req.Status)
	if errors.Is(err, ErrNotFound) {
		return fail(c, http.StatusNotFound, "Application not found")
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ap)
}

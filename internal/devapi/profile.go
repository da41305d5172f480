package devapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

func (s *Server) getProfile(c echo.Context) error {
	p, err := s.store.profile(currentUser(c).ID)
	if err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return respond(c, http.StatusOK, p)
}

func (s *Server) updateProfile(c echo.Context) error {
	var p models.Profile
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	out, err := s.store.updateProfile(currentUser(c).ID, p)
	if err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	return respond(c, http.StatusOK, out)
}

package devapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/devapi/config"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=USER COMPANY ADMIN"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authPayload struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// userWithToken is the user object carrying its own token, as some
// deployments return it from /auth/refresh.
type userWithToken struct {
	models.User
	Token string `json:"token"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	u, err := s.CreateUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return fail(c, http.StatusConflict, "User already exists")
		}
		return err
	}

	s.logger.Info(c.Request().Context(), "Registered", "user_id", u.ID, "role", u.Role)
	return s.startSession(c, u, http.StatusCreated)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}

	u, hash, err := s.store.credentials(req.Email)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if !u.IsActive {
		return fail(c, http.StatusForbidden, "Account is disabled")
	}

	return s.startSession(c, u, http.StatusOK)
}

// startSession issues both tokens, sets the refresh cookie and answers with
// {data: {user, token}}.
func (s *Server) startSession(c echo.Context, u models.User, status int) error {
	access, err := s.tokens.issueAccess(u)
	if err != nil {
		return err
	}
	if err := s.setRefreshCookie(c, u.ID); err != nil {
		return err
	}
	return respond(c, status, authPayload{User: u, Token: access})
}

func (s *Server) setRefreshCookie(c echo.Context, userID string) error {
	token, expires, err := s.tokens.issueRefresh(userID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) logout(c echo.Context) error {
	if ck, err := c.Cookie(RefreshCookie); err == nil {
		s.tokens.revokeRefresh(ck.Value)
	}
	if token, ok := bearer(c); ok {
		if claims, err := s.tokens.inspect(token); err == nil {
			s.tokens.revokeAccess(claims.ID)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return respondMessage(c, http.StatusOK, "Logged out successfully")
}

// refresh accepts the refresh cookie or, failing that, any access token this
// server issued and has not revoked, expired or not.
func (s *Server) refresh(c echo.Context) error {
	s.refreshCalls.Add(1)

	if d := time.Duration(s.refreshDelay.Load()); d > 0 {
		select {
		case <-time.After(d):
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	var (
		userID string
		ok     bool
		viaJWT bool
	)
	if ck, err := c.Cookie(RefreshCookie); err == nil {
		userID, ok = s.tokens.fromRefresh(ck.Value)
	}
	if !ok {
		if token, has := bearer(c); has {
			userID, ok = s.tokens.fromAccess(token)
			viaJWT = ok
		}
	}
	if !ok {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	u, err := s.store.user(userID)
	if err != nil || !u.IsActive {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	access, err := s.tokens.issueAccess(u)
	if err != nil {
		return err
	}
	if viaJWT {
		if err := s.setRefreshCookie(c, u.ID); err != nil {
			return err
		}
	}

	switch s.refreshShape() {
	case config.ShapeRootToken:
		return c.JSON(http.StatusOK, map[string]any{"success": true, "token": access, "user": u})
	case config.ShapeUserToken:
		return respond(c, http.StatusOK, map[string]any{"user": userWithToken{User: u, Token: access}})
	default:
		return respond(c, http.StatusOK, authPayload{User: u, Token: access})
	}
}

func (s *Server) me(c echo.Context) error {
	return respond(c, http.StatusOK, map[string]any{"user": currentUser(c)})
}

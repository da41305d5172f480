package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/devapi/config"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

const (
	DefaultPrefix = "/api"
	ControlPrefix = "/__dev"

	RefreshCookie = "refresh_token"

	maxUploadSize = 5 << 20
)

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock replaces time.Now for token expiry and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithBcryptCost lowers the hashing cost, mostly for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.bcryptCost = cost }
}

type Server struct {
	cfg        *config.Config
	echo       *echo.Echo
	logger     logging.Logger
	now        func() time.Time
	bcryptCost int
	prefix     string

	store  *memStore
	tokens *tokenIssuer
	faults *faultTable

	refreshCalls atomic.Int64
	refreshDelay atomic.Int64

	shapeMu sync.RWMutex
	shape   string
}

func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		logger:     logging.Discard(),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		prefix:     DefaultPrefix,
		faults:     newFaultTable(),
		shape:      cfg.RefreshShape,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "devapi")

	s.store = newMemStore(s.now)
	s.tokens = newTokenIssuer(cfg.SecretKey, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration, s.now)

	s.echo = s.routes()

	if cfg.Seed {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return s, nil
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &requestValidator{v: validator.New()}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: common.RequestIDHeader,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/uploads/:id/:name", s.serveUpload)

	api := e.Group(s.prefix, s.injectFaults)

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)
	api.POST("/auth/refresh", s.refresh)
	api.GET("/auth/me", s.me, s.requireAuth())

	api.GET("/jobs", s.listJobs)
	api.GET("/jobs/recommendations", s.recommendations, s.requireAuth())
	api.GET("/jobs/:id", s.getJob)
	api.POST("/jobs", s.createJob, s.requireAuth(models.WireRoleCompany, models.WireRoleAdmin))
	api.PUT("/jobs/:id", s.updateJob, s.requireAuth(models.WireRoleCompany, models.WireRoleAdmin))
	api.DELETE("/jobs/:id", s.deleteJob, s.requireAuth(models.WireRoleCompany, models.WireRoleAdmin))

	api.POST("/applications", s.apply, s.requireAuth(models.WireRoleUser))
	api.GET("/user/applications", s.myApplications, s.requireAuth())
	api.POST("/uploads", s.upload, s.requireAuth())

	api.GET("/user/profile", s.getProfile, s.requireAuth())
	api.PUT("/user/profile", s.updateProfile, s.requireAuth())

	company := api.Group("/company", s.requireAuth(models.WireRoleCompany))
	company.GET("/profile", s.getCompanyProfile)
	company.PUT("/profile", s.updateCompanyProfile)
	company.GET("/jobs", s.companyJobs)
	company.POST("/jobs", s.createJob)
	company.GET("/jobs/:id/applications", s.jobApplications)
	company.PATCH("/jobs/:id/applications/:applicationId", s.companySetStatus)
	company.GET("/stats", s.companyStats)

	admin := api.Group("/admin", s.requireAuth(models.WireRoleAdmin))
	admin.GET("/users", s.adminUsers)
	admin.PATCH("/users/:id/role", s.adminSetRole)
	admin.GET("/stats", s.adminStats)
	admin.PATCH("/applications/:id/status", s.adminSetStatus)

	ctl := e.Group(ControlPrefix)
	ctl.POST("/faults", s.ctlSetFault)
	ctl.DELETE("/faults", s.ctlClearFaults)
	ctl.POST("/expire", s.ctlExpire)
	ctl.GET("/stats", s.ctlStats)

	return e
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		s.logger.Info(ctx, "Starting dev API", "address", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping dev API...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// CreateUser registers an account directly, bypassing HTTP.
func (s *Server) CreateUser(name, email, password, wireRole string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}
	return s.store.createAccount(name, email, wireRole, hash)
}

// SetUserActive enables or disables an account.
func (s *Server) SetUserActive(id string, active bool) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a, ok := s.store.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.user.IsActive = active
	return nil
}

// InjectFault makes method+path answer with status. path is relative to the
// API prefix and uses route syntax, e.g. "jobs/:id". times <= 0 keeps the
// fault until ClearFaults.
func (s *Server) InjectFault(method, path string, status, times int) {
	s.faults.set(faultKey(s.prefix, method, path), status, times)
}

func (s *Server) ClearFaults() {
	s.faults.reset()
}

// ExpireAccessTokens rejects every outstanding access token with 401 while
// still allowing it to be exchanged at /auth/refresh.
func (s *Server) ExpireAccessTokens() {
	s.tokens.expireAccess()
}

// RefreshCalls reports how many times /auth/refresh was hit.
func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// SetRefreshDelay holds every refresh response for d.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.refreshDelay.Store(int64(d))
}

// SetRefreshShape selects where /auth/refresh puts the new token.
func (s *Server) SetRefreshShape(shape string) {
	s.shapeMu.Lock()
	s.shape = shape
	s.shapeMu.Unlock()
}

func (s *Server) refreshShape() string {
	s.shapeMu.RLock()
	defer s.shapeMu.RUnlock()
	return s.shape
}

const userKey = "user"

// requireAuth admits requests carrying a live bearer token whose user has
// one of roles (any role when none are given).
func (s *Server) requireAuth(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c)
			if !ok {
				return fail(c, http.StatusUnauthorized, "Not authorized, no token")
			}
			claims, err := s.tokens.authenticate(token)
			if err != nil {
				return fail(c, http.StatusUnauthorized, "Not authorized, token failed")
			}
			u, err := s.store.user(claims.UserID)
			if err != nil {
				return fail(c, http.StatusUnauthorized, "Not authorized, user not found")
			}
			if !u.IsActive {
				return fail(c, http.StatusForbidden, "Account is disabled")
			}
			if len(roles) > 0 && !slices.Contains(roles, u.Role) {
				return fail(c, http.StatusForbidden, "You do not have permission to perform this action")
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(common.AuthorizationHeader)
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func currentUser(c echo.Context) models.User {
	u, _ := c.Get(userKey).(models.User)
	return u
}

type faultRequest struct {
	Method string `json:"method" validate:"required"`
	Path   string `json:"path" validate:"required"`
	Status int    `json:"status" validate:"gte=400,lte=599"`
	Times  int    `json:"times"`
}

func (s *Server) ctlSetFault(c echo.Context) error {
	var req faultRequest
	if handled, err := bindValid(c, &req); handled {
		return err
	}
	s.InjectFault(req.Method, req.Path, req.Status, req.Times)
	return respondMessage(c, http.StatusOK, "Fault installed")
}

func (s *Server) ctlClearFaults(c echo.Context) error {
	s.ClearFaults()
	return respondMessage(c, http.StatusOK, "Faults cleared")
}

func (s *Server) ctlExpire(c echo.Context) error {
	s.ExpireAccessTokens()
	return respondMessage(c, http.StatusOK, "Access tokens expired")
}

func (s *Server) ctlStats(c echo.Context) error {
	return respond(c, http.StatusOK, map[string]any{
		"refreshCalls": s.RefreshCalls(),
		"refreshShape": s.refreshShape(),
	})
}

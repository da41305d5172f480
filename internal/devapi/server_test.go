package devapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/devapi/config"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Seed = false

	s, err := New(cfg, append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)...)
	require.NoError(t, err)
	return s
}

type call struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

func (s *Server) serve(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(c.method, c.path, rdr)
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == RefreshCookie {
			return ck
		}
	}
	return nil
}

// signUp registers an account over HTTP and returns its token and cookie.
func (s *Server) signUp(t *testing.T, email, role string) (string, *http.Cookie) {
	t.Helper()
	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{
		"name": "Test " + role, "email": email, "password": "secret1", "role": role,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return gjson.Get(rec.Body.String(), "data.token").String(), refreshCookie(rec)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	token, ck := s.signUp(t, "Jane@Example.com", "")
	assert.NotEmpty(t, token)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)

	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "jane@example.com", "password": "wrong-pass",
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "success").Bool())
	assert.Equal(t, "Invalid email or password", gjson.Get(rec.Body.String(), "message").String())

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "jane@example.com", "password": "secret1",
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, models.WireRoleUser, gjson.Get(body, "data.user.role").String())
	assert.Equal(t, "jane@example.com", gjson.Get(body, "data.user.email").String())
	assert.NotEmpty(t, gjson.Get(body, "data.token").String())

	exp := models.TokenExpiry(gjson.Get(body, "data.token").String())
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Minute)
}

func TestRegister_Rejections(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "dup@example.com", "COMPANY")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		msg    string
	}{
		{"duplicate", map[string]string{"name": "x", "email": "dup@example.com", "password": "secret1"}, http.StatusConflict, "User already exists"},
		{"short password", map[string]string{"name": "x", "email": "a@example.com", "password": "123"}, http.StatusBadRequest, "password must be at least 6 characters"},
		{"bad email", map[string]string{"name": "x", "email": "nope", "password": "secret1"}, http.StatusBadRequest, "email is invalid"},
		{"unknown role", map[string]string{"name": "x", "email": "b@example.com", "password": "secret1", "role": "ROOT"}, http.StatusBadRequest, "role is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/register", body: tt.body})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, gjson.Get(rec.Body.String(), "message").String())
		})
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "me@example.com", "ADMIN")

	rec := s.serve(t, call{method: http.MethodGet, path: "/api/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.WireRoleAdmin, gjson.Get(rec.Body.String(), "data.user.role").String())
}

func TestRefresh_Shapes(t *testing.T) {
	tests := []struct {
		shape string
		path  string
	}{
		{config.ShapeDataToken, "data.token"},
		{config.ShapeRootToken, "token"},
		{config.ShapeUserToken, "data.user.token"},
	}

	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			s := newTestServer(t)
			s.SetRefreshShape(tt.shape)
			_, ck := s.signUp(t, "shape@example.com", "")

			rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", cookies: []*http.Cookie{ck}})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			token := gjson.Get(rec.Body.String(), tt.path).String()
			require.NotEmpty(t, token)
			assert.Equal(t, 1, s.RefreshCalls())

			rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRefresh_WithExpiredBearerOnly(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "bearer@example.com", "")

	s.ExpireAccessTokens()
	rec := s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, refreshCookie(rec), "a new refresh cookie is issued")

	fresh := gjson.Get(rec.Body.String(), "data.token").String()
	assert.NotEqual(t, token, fresh)
	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: fresh})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_NoCredentials(t *testing.T) {
	s := newTestServer(t)

	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh",
		cookies: []*http.Cookie{{Name: RefreshCookie, Value: "unknown"}}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 2, s.RefreshCalls())
}

func TestAccessTokenLifetime(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestServer(t, WithClock(clk.Now))
	token, ck := s.signUp(t, "clock@example.com", "")

	clk.Advance(16 * time.Minute)
	rec := s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", cookies: []*http.Cookie{ck}})
	assert.Equal(t, http.StatusOK, rec.Code)

	clk.Advance(8 * 24 * time.Hour)
	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", cookies: []*http.Cookie{ck}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh token outlived its validity")
}

func TestLogout_RevokesTokens(t *testing.T) {
	s := newTestServer(t)
	token, ck := s.signUp(t, "bye@example.com", "")

	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/logout", token: token, cookies: []*http.Cookie{ck}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", gjson.Get(rec.Body.String(), "message").String())
	cleared := refreshCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", token: token, cookies: []*http.Cookie{ck}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDisabledAccount(t *testing.T) {
	s := newTestServer(t)
	u, err := s.CreateUser("Off", "off@example.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, s.SetUserActive(u.ID, false))

	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": "off@example.com", "password": "secret1",
	}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.ErrorIs(t, s.SetUserActive("missing", true), ErrNotFound)
}

func TestInjectFault(t *testing.T) {
	s := newTestServer(t)
	token, ck := s.signUp(t, "fault@example.com", "")

	s.InjectFault(http.MethodGet, "jobs", http.StatusInternalServerError, 1)
	rec := s.serve(t, call{method: http.MethodGet, path: "/api/jobs"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "success").Bool())
	rec = s.serve(t, call{method: http.MethodGet, path: "/api/jobs"})
	assert.Equal(t, http.StatusOK, rec.Code, "single-shot fault is consumed")

	s.InjectFault(http.MethodGet, "/api/auth/me", http.StatusUnauthorized, 0)
	for range 3 {
		rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	s.InjectFault(http.MethodPost, "auth/refresh", http.StatusTooManyRequests, 1)
	rec = s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", cookies: []*http.Cookie{ck}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, s.RefreshCalls(), "faulted refreshes are still counted")

	s.ClearFaults()
	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestControlEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "ctl@example.com", "")

	rec := s.serve(t, call{method: http.MethodPost, path: "/__dev/faults", body: map[string]any{
		"method": "get", "path": "jobs/:id", "status": 429, "times": 1,
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.serve(t, call{method: http.MethodGet, path: "/api/jobs/anything"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/__dev/faults", body: map[string]any{
		"method": "GET", "path": "jobs", "status": 200,
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.serve(t, call{method: http.MethodPost, path: "/__dev/expire"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.serve(t, call{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.serve(t, call{method: http.MethodPost, path: "/api/auth/refresh", token: token})
	rec = s.serve(t, call{method: http.MethodGet, path: "/__dev/stats"})
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "data.refreshCalls").Int())
	assert.Equal(t, config.ShapeDataToken, gjson.Get(rec.Body.String(), "data.refreshShape").String())

	rec = s.serve(t, call{method: http.MethodDelete, path: "/__dev/faults"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec := s.serve(t, call{method: http.MethodGet, path: "/api/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "success").Bool())
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", gjson.Get(rec.Body.String(), "message").String())
}

func TestUploads(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "cv@example.com", "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "../cv.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4 resume"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	url := gjson.Get(rec.Body.String(), "data.url").String()
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}/cv\.pdf$`, url)

	rec = s.serve(t, call{method: http.MethodGet, path: url})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.4 resume", rec.Body.String())

	rec = s.serve(t, call{method: http.MethodPost, path: "/api/uploads", token: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", gjson.Get(rec.Body.String(), "message").String())
}

func TestSeed(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	s, err := New(cfg, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	rec := s.serve(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{
		"email": SeedCompanyEmail, "password": SeedPassword,
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.WireRoleCompany, gjson.Get(rec.Body.String(), "data.user.role").String())

	rec = s.serve(t, call{method: http.MethodGet, path: "/api/jobs"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), gjson.Get(rec.Body.String(), "data.pagination.total").Int())
	assert.Equal(t, "Acme Corp", gjson.Get(rec.Body.String(), "data.jobs.0.company").String())
}

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/navigate"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/client/tokenstore"
	"github.com/dmitrijs2005/jobboard/internal/client/wire"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

const (
	LoginPath    = "auth/login"
	RegisterPath = "auth/register"
	LogoutPath   = "auth/logout"
	MePath       = "auth/me"
)

var errNoUser = errors.New("no user in response")

// SessionStore is the token store as seen by the session manager.
type SessionStore interface {
	Token() string
	Save(ctx context.Context, token string, user *models.User)
	Clear(ctx context.Context)
	Load(ctx context.Context) tokenstore.Snapshot
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Role is the wire role; empty lets the server pick its default.
	Role string `json:"role,omitempty" validate:"omitempty,oneof=USER COMPANY ADMIN"`
}

type SessionManager struct {
	api      API
	store    SessionStore
	notifier notify.Notifier
	nav      navigate.Navigator
	log      logging.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	session *models.Session
}

func NewSessionManager(api API, store SessionStore, notifier notify.Notifier, nav navigate.Navigator, log logging.Logger) *SessionManager {
	if notifier == nil {
		notifier = notify.Discard
	}
	if nav == nil {
		nav = navigate.Discard
	}
	if log == nil {
		log = logging.Discard()
	}
	return &SessionManager{
		api:      api,
		store:    store,
		notifier: notifier,
		nav:      nav,
		log:      log.With("component", "session"),
		validate: newValidator(),
	}
}

// Login signs in and redirects to the role's landing page.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.Session, error) {
	in := Credentials{Email: email, Password: password}
	if err := m.validate.Struct(in); err != nil {
		return nil, classify(err, true)
	}

	res, err := m.api.Do(ctx, client.Request{
		Method:      http.MethodPost,
		Path:        LoginPath,
		Body:        in,
		SkipRefresh: true,
	})
	if err != nil {
		m.log.Info(ctx, "login failed", "error", err)
		return nil, classify(err, true)
	}

	return m.establish(ctx, res.Body, "Login successful")
}

// Register creates an account, signs it in and redirects like Login.
func (m *SessionManager) Register(ctx context.Context, in RegisterInput) (*models.Session, error) {
	if err := m.validate.Struct(in); err != nil {
		return nil, classify(err, false)
	}

	res, err := m.api.Do(ctx, client.Request{
		Method:      http.MethodPost,
		Path:        RegisterPath,
		Body:        in,
		SkipRefresh: true,
	})
	if err != nil {
		m.log.Info(ctx, "registration failed", "error", err)
		return nil, classify(err, false)
	}

	return m.establish(ctx, res.Body, "Registration successful")
}

func (m *SessionManager) establish(ctx context.Context, body []byte, greeting string) (*models.Session, error) {
	token, ok := wire.ExtractToken(body)
	if !ok {
		return nil, &AuthError{Kind: KindUnknown, Message: MsgNoToken}
	}
	user, ok := wire.ExtractUser(body)
	if !ok {
		return nil, &AuthError{Kind: KindUnknown, Message: MsgNoUser}
	}

	s := models.NewSession(*user, token)
	m.store.Save(ctx, token, user)
	m.setSession(s)

	m.log.Info(ctx, "signed in", "user_id", s.UserID, "role", s.Role)
	m.notifier.Notify(ctx, notify.Success, greeting)
	m.nav.Navigate(navigate.HomeFor(s.Role))

	return cloneSession(s), nil
}

// Logout forgets the session locally, then tells the server. The server
// call is best effort and cannot undo the local logout.
func (m *SessionManager) Logout(ctx context.Context) {
	m.setSession(nil)
	m.store.Clear(ctx)

	_, err := m.api.Do(ctx, client.Request{
		Method:      http.MethodPost,
		Path:        LogoutPath,
		SkipRefresh: true,
	})
	if err != nil {
		m.log.Warn(ctx, "server logout failed", "error", err)
	} else {
		m.notifier.Notify(ctx, notify.Success, "Logged out successfully")
	}

	m.nav.Navigate(navigate.LoginPath)
}

// CheckAuth reports whether the stored token still identifies a user. It
// makes no request when there is no token. An unusable token is refreshed
// once; if that fails the session is dropped. When another caller replaced
// the token while auth/me was in flight, the new token is checked instead of
// starting a second refresh. An unreachable server leaves the stored session
// in place for the next attempt.
func (m *SessionManager) CheckAuth(ctx context.Context) bool {
	token := m.store.Token()
	if token == "" {
		m.setSession(nil)
		return false
	}

	err := m.me(ctx)
	if err == nil {
		return true
	}
	if errors.Is(err, client.ErrUnavailable) {
		m.log.Info(ctx, "auth check skipped, server unreachable", "error", err)
		m.setSession(nil)
		return false
	}

	switch current := m.store.Token(); {
	case current == "":
		m.setSession(nil)
		return false
	case current == token:
		if _, err := m.api.Refresh(ctx); err != nil {
			m.log.Info(ctx, "session could not be refreshed", "error", err)
			m.drop(ctx)
			return false
		}
	}

	if m.me(ctx) == nil {
		return true
	}

	m.drop(ctx)
	return false
}

func (m *SessionManager) me(ctx context.Context) error {
	res, err := m.api.Do(ctx, client.Request{
		Method:      http.MethodGet,
		Path:        MePath,
		SkipRefresh: true,
	})
	if err != nil {
		m.log.Debug(ctx, "auth check failed", "error", err)
		return err
	}

	user, ok := wire.ExtractUser(res.Body)
	if !ok {
		m.log.Debug(ctx, "auth check returned no user")
		return errNoUser
	}

	token := m.store.Token()
	if token == "" {
		return client.ErrNoToken
	}
	m.store.Save(ctx, token, user)
	m.setSession(models.NewSession(*user, token))
	return nil
}

func (m *SessionManager) drop(ctx context.Context) {
	m.setSession(nil)
	m.store.Clear(ctx)
}

// Hydrate restores the session persisted by a previous run without
// contacting the server.
func (m *SessionManager) Hydrate(ctx context.Context) *models.Session {
	snap := m.store.Load(ctx)
	if snap.Empty() || snap.User == nil {
		return nil
	}
	s := models.NewSession(*snap.User, snap.Token)
	m.setSession(s)
	return cloneSession(s)
}

// Current returns the signed-in session or nil. The token is read from the
// store, so it reflects refreshes; a store emptied by a failed refresh
// yields nil.
func (m *SessionManager) Current() *models.Session {
	m.mu.RLock()
	s := cloneSession(m.session)
	m.mu.RUnlock()

	if s == nil {
		return nil
	}
	token := m.store.Token()
	if token == "" {
		return nil
	}
	if token != s.Token {
		s.Token = token
		s.ExpiresAt = models.TokenExpiry(token)
	}
	return s
}

func (m *SessionManager) setSession(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
}

func cloneSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Package runtime owns the long-lived objects of a client process: config,
// logger, storage, token store, HTTP client and the services built on it.
//
// A Runtime is created with New, brought up with Init and torn down with
// Dispose. Nothing in the client relies on package-level singletons; callers
// that need a second independent session simply build a second Runtime.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/config"
	"github.com/dmitrijs2005/jobboard/internal/client/navigate"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/client/services"
	"github.com/dmitrijs2005/jobboard/internal/client/storage"
	"github.com/dmitrijs2005/jobboard/internal/client/tokenstore"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

var (
	ErrAlreadyInitialized = errors.New("runtime already initialized")
	ErrNotInitialized     = errors.New("runtime not initialized")
)

const serviceName = "jobboard-client"

type Option func(*Runtime)

// WithLogger replaces the zap logger Init would otherwise build from config.
func WithLogger(l logging.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

func WithNotifier(n notify.Notifier) Option {
	return func(r *Runtime) { r.notifier = n }
}

func WithNavigator(n navigate.Navigator) Option {
	return func(r *Runtime) { r.navigator = n }
}

// WithStorage hands Init an already opened backend. Dispose still closes it.
func WithStorage(s *storage.Store) Option {
	return func(r *Runtime) { r.storage = s }
}

type Runtime struct {
	config    *config.Config
	logger    logging.Logger
	notifier  notify.Notifier
	navigator navigate.Navigator

	storage *storage.Store
	syncFn  func() error

	Tokens       *tokenstore.Store
	Client       *client.Client
	Session      *services.SessionManager
	Jobs         *services.JobService
	Applications *services.ApplicationService
	Company      *services.CompanyService
	Admin        *services.AdminService
	Profile      *services.ProfileService

	mu          sync.Mutex
	initialized bool
}

func New(cfg *config.Config, opts ...Option) *Runtime {
	r := &Runtime{
		config:    cfg,
		notifier:  notify.Discard,
		navigator: navigate.Discard,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runtime) Config() *config.Config {
	return r.config
}

func (r *Runtime) Logger() logging.Logger {
	if r.logger == nil {
		return logging.Discard()
	}
	return r.logger
}

// Init opens storage, restores the persisted session and wires the services.
// On failure everything opened so far is released again.
func (r *Runtime) Init(ctx context.Context) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}

	if r.logger == nil {
		zl, zerr := logging.NewProductionZapLogger(r.config.LogLevel, serviceName)
		if zerr != nil {
			return fmt.Errorf("logger init: %w", zerr)
		}
		r.logger = zl
		r.syncFn = zl.Sync
	}

	if r.storage == nil {
		st, serr := storage.Open(ctx, storage.Options{
			Backend:       r.config.StoreBackend,
			DatabasePath:  r.config.DatabasePath,
			RedisAddr:     r.config.RedisAddr,
			RedisPassword: r.config.RedisPassword,
			RedisDB:       r.config.RedisDB,
		})
		if serr != nil {
			return fmt.Errorf("storage init: %w", serr)
		}
		r.storage = st
	}
	defer func() {
		if err != nil {
			_ = r.storage.Close()
			r.storage = nil
		}
	}()

	r.Tokens = tokenstore.New(r.storage.Metadata, r.logger)
	r.Tokens.Load(ctx)

	r.Client = client.New(r.Tokens, client.Options{
		BaseURL:        r.config.APIBaseURL,
		Timeout:        r.config.RequestTimeout,
		RefreshTimeout: r.config.RefreshTimeout,
		Logger:         r.logger,
		Notifier:       r.notifier,
	})

	r.Session = services.NewSessionManager(r.Client, r.Tokens, r.notifier, r.navigator, r.logger)
	r.Session.Hydrate(ctx)

	r.Jobs = services.NewJobService(r.Client)
	r.Applications = services.NewApplicationService(r.Client)
	r.Company = services.NewCompanyService(r.Client)
	r.Admin = services.NewAdminService(r.Client)
	r.Profile = services.NewProfileService(r.Client)

	r.initialized = true
	r.logger.Info(ctx, "runtime initialized",
		"api", r.config.APIBaseURL,
		"store", r.config.StoreBackend,
	)
	return nil
}

// Dispose releases storage and flushes the logger. The persisted session is
// left in place so the next process can pick it up.
func (r *Runtime) Dispose(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	r.initialized = false

	var errs []error
	if err := r.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close: %w", err))
	}
	r.storage = nil

	r.logger.Info(ctx, "runtime disposed")
	if r.syncFn != nil {
		// zap returns EINVAL/ENOTTY when syncing a terminal stderr
		_ = r.syncFn()
	}
	return errors.Join(errs...)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/jobboard/internal/client/config"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/client/notify"
	"github.com/dmitrijs2005/jobboard/internal/client/runtime"
	"github.com/dmitrijs2005/jobboard/internal/client/services"
)

// sessionAPI is the part of services.SessionManager the CLI drives.
type sessionAPI interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.Session, error)
	Logout(ctx context.Context)
	CheckAuth(ctx context.Context) bool
	Current() *models.Session
}

type jobsAPI interface {
	List(ctx context.Context, page int, f models.JobFilter) (*models.JobPage, error)
	Get(ctx context.Context, id string) (*models.Job, error)
}

type applicationsAPI interface {
	Apply(ctx context.Context, jobID, coverLetter, resumeURL string) (*models.Application, error)
	Mine(ctx context.Context) ([]models.Application, error)
	UploadResume(ctx context.Context, name string, data []byte) (string, error)
}

type App struct {
	runtime      *runtime.Runtime
	session      sessionAPI
	jobs         jobsAPI
	applications applicationsAPI

	reader *bufio.Reader
	out    io.Writer

	mu         sync.Mutex
	location   string
	lastResume string
}

// NewApp builds the runtime for c. Services are bound in Run, after the
// runtime is initialized.
func NewApp(c *config.Config) *App {
	a := &App{
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.runtime = runtime.New(c,
		runtime.WithNotifier(notify.NewWriter(os.Stdout)),
		runtime.WithNavigator(a),
	)
	return a
}

// Navigate records the page the session manager redirected to. It is shown
// in the prompt.
func (a *App) Navigate(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.location = path
}

func (a *App) currentLocation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// Run initializes the runtime, runs the REPL and disposes the runtime when
// the user leaves.
func (a *App) Run(ctx context.Context) error {
	if err := a.runtime.Init(ctx); err != nil {
		return fmt.Errorf("client init: %w", err)
	}
	defer func() {
		if err := a.runtime.Dispose(ctx); err != nil {
			a.runtime.Logger().Error(ctx, "dispose failed", "error", err)
		}
	}()

	a.session = a.runtime.Session
	a.jobs = a.runtime.Jobs
	a.applications = a.runtime.Applications

	a.Root(ctx)
	return nil
}

// Root validates the stored session and enters the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to JobBoard. Type 'help' for commands.")

	if a.session.CheckAuth(ctx) {
		s := a.session.Current()
		printlnFn(fmt.Sprintf("Signed in as %s", s.Email))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) getStatus() string {
	loc := a.currentLocation()
	if loc == "" {
		loc = "/"
	}
	s := a.session.Current()
	if s == nil {
		return fmt.Sprintf("guest %s", loc)
	}
	return fmt.Sprintf("%s (%s) %s", s.Email, s.Role, loc)
}

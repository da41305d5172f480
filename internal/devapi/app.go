package devapi

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/jobboard/internal/devapi/config"
	"github.com/dmitrijs2005/jobboard/internal/logging"
)

// App runs the dev API as a standalone process.
type App struct {
	config *config.Config
	logger *logging.ZapLogger
	server *Server
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.NewProductionZapLogger(c.LogLevel, "jobboard-devapi")
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	srv, err := New(c, WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("server init error: %w", err)
	}

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a termination signal arrives or the listener fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer func() { _ = app.logger.Sync() }()

	app.initSignalHandler(cancelFunc)

	if app.config.Seed {
		app.logger.Info(ctx, "Demo accounts loaded",
			"admin", SeedAdminEmail,
			"company", SeedCompanyEmail,
			"seeker", SeedSeekerEmail,
		)
	}

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "dev API stopped", "error", err)
		return err
	}
	return nil
}

package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/itimad/portal-api/config"
	"github.com/itimad/portal-api/internal/adapters/reaper"
)

// ServiceOrchestrationConfig contains dependencies for running the enabled services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the enabled services and blocks until
// SIGINT/SIGTERM, then shuts them down gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var server *http.Server
	if cfg.Config.IsHTTPServerEnabled() {
		server = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	if cfg.Config.IsReaperEnabled() {
		runner, err := reaper.NewRunner(reaper.RunnerOptions{
			Sessions: cfg.Services.Sessions,
			Config:   cfg.Config.Reaper,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if runErr := runner.Run(gctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		})
	}

	// Block until a signal arrives or a service fails.
	<-gctx.Done()
	stop()

	shutdownErr := ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:  logger,
	})

	if err := g.Wait(); err != nil {
		return errors.Join(err, shutdownErr)
	}
	return shutdownErr
}

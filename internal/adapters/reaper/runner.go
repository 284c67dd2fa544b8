// Package reaper provides the expired-session cleanup loop.
package reaper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/itimad/portal-api/config"
	"github.com/itimad/portal-api/internal/ports"
)

// Runner periodically deletes expired sessions from the session store.
// Redis-backed stores expire entries natively and report zero deletions;
// the loop is still harmless there.
type Runner struct {
	sessions ports.SessionStore
	interval time.Duration
	logger   *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Sessions ports.SessionStore
	Config   config.ReaperConfig
	Logger   *slog.Logger
}

// NewRunner creates a new session reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	interval := opts.Config.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Runner{
		sessions: opts.Sessions,
		interval: interval,
		logger:   opts.Logger,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.reapOnce(ctx)
		}
	}
}

func (r *Runner) reapOnce(ctx context.Context) {
	deleted, err := r.sessions.DeleteExpired(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "session reap failed", "error", err)
		return
	}
	if deleted > 0 {
		r.logger.InfoContext(ctx, "reaped expired sessions", "deleted", deleted)
	}
}

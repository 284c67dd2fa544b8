package reaper

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itimad/portal-api/config"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	mockauth "github.com/itimad/portal-api/internal/mocks/auth"
)

func TestNewRunner_RequiresSessions(t *testing.T) {
	t.Parallel()
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)
}

func TestRunner_ReapsExpiredSessions(t *testing.T) {
	t.Parallel()
	store := mockauth.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID:        "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID:        "live",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	r, err := NewRunner(RunnerOptions{
		Sessions: store,
		Config:   config.ReaperConfig{Interval: time.Minute},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	r.reapOnce(ctx)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, mockauth.ErrNotFound)
	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	r, err := NewRunner(RunnerOptions{
		Sessions: mockauth.NewMemorySessionStore(),
		Config:   config.ReaperConfig{Interval: time.Millisecond},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

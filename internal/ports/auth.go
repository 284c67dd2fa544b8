package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/itimad/portal-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when no live session
// exists for the ID. All backends return this same sentinel so callers can
// tell a missing session from a transport failure.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes a staff authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves visitor sessions, including the
// anonymous ones that only carry a CAPTCHA challenge. Save overwrites any
// existing session with the same ID.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions past their expiry. Backends whose
	// storage expires entries natively may report zero.
	DeleteExpired(ctx context.Context) (int64, error)
}

// RoleMapper maps IdP groups to staff roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/itimad/portal-api/internal/domain/auth"
	"github.com/itimad/portal-api/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/sso/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	authURL2, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "https://mock-idp/auth", authURL2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{
		AuthURL:     "https://custom-idp/login",
		StatePrefix: "custom-state",
		NoncePrefix: "custom-nonce",
	}
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/sso/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login", authURL)
	assert.Equal(t, "custom-state-1", state)
	assert.Equal(t, "custom-nonce-1", nonce)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/sso/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	identity, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "inspector.ali", identity.UserID)
	assert.Equal(t, "Ali", identity.FirstName)
	assert.Equal(t, "Hassan", identity.LastName)
	assert.Equal(t, "inspector.ali@gov.iq", identity.Email)
	assert.Equal(t, []string{"portal-admins"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomUser(t *testing.T) {
	customUser := domainauth.Identity{
		UserID:    "director.sara",
		FirstName: "Sara",
		LastName:  "Kareem",
		Email:     "director.sara@gov.iq",
		Groups:    []string{"portal-directors", "portal-admins"},
	}
	provider := &MockAuthProvider{DefaultUser: customUser}
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	identity, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "director.sara", identity.UserID)
	assert.Equal(t, "Sara", identity.FirstName)
	assert.Equal(t, "Kareem", identity.LastName)
	assert.Equal(t, "director.sara@gov.iq", identity.Email)
	assert.Equal(t, []string{"portal-directors", "portal-admins"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{
				UserID: "func-user",
				Email:  "func@gov.iq",
			}, nil
		},
	}
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	identity, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "func-user", identity.UserID)
	assert.Equal(t, "func@gov.iq", identity.Email)
}

func TestStaticRoleMapper_SuperAdminWins(t *testing.T) {
	mapper := StaticRoleMapper{
		SuperAdminGroup: "portal-directors",
		AdminGroup:      "portal-admins",
	}

	role := mapper.Map([]string{"portal-admins", "portal-directors"})
	assert.Equal(t, domainauth.RoleSuperAdmin, role)

	role = mapper.Map([]string{"portal-directors"})
	assert.Equal(t, domainauth.RoleSuperAdmin, role)
}

func TestStaticRoleMapper_AdminRole(t *testing.T) {
	mapper := StaticRoleMapper{
		SuperAdminGroup: "portal-directors",
		AdminGroup:      "portal-admins",
	}

	role := mapper.Map([]string{"portal-admins"})
	assert.Equal(t, domainauth.RoleAdmin, role)

	role = mapper.Map([]string{"portal-admins", "other"})
	assert.Equal(t, domainauth.RoleAdmin, role)
}

func TestStaticRoleMapper_UnmatchedDenied(t *testing.T) {
	mapper := StaticRoleMapper{
		SuperAdminGroup: "portal-directors",
		AdminGroup:      "portal-admins",
	}

	assert.Equal(t, domainauth.Role(""), mapper.Map([]string{"other", "groups"}))
	assert.Equal(t, domainauth.Role(""), mapper.Map([]string{}))
	assert.Equal(t, domainauth.Role(""), mapper.Map(nil))
}

func TestStaticRoleMapper_EmptyConfig(t *testing.T) {
	mapper := StaticRoleMapper{}

	role := mapper.Map([]string{"portal-admins", "portal-directors"})
	assert.Equal(t, domainauth.Role(""), role)
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "center@portal.iq",
		Role:      domainauth.RoleTrainingCenter,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestMemorySessionStore_GetNonExistent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_GetEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_SaveEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		UserID:    "user-123",
		Email:     "center@portal.iq",
		Role:      domainauth.RoleTrainingCenter,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	err = store.Delete(ctx, "test-session-1")
	require.NoError(t, err)

	_, err = store.Get(ctx, "test-session-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_DeleteEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Delete(ctx, "")
	assert.NoError(t, err)
}

func TestMemorySessionStore_ExpiredSessionsHidden(t *testing.T) {
	now := time.Now()
	store := NewMemorySessionStore()
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	live := domainauth.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}
	stale := domainauth.Session{ID: "stale", ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, stale))

	now = now.Add(10 * time.Minute)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "stale")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}

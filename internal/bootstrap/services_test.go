package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itimad/portal-api/config"
)

func TestValidateServiceConfig(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidateServiceConfig(nil))

	cfg := &config.AppConfig{Services: "http,reaper"}
	assert.NoError(t, ValidateServiceConfig(cfg))

	bad := &config.AppConfig{Services: "http,scheduler"}
	assert.Error(t, ValidateServiceConfig(bad))
}

func TestGetEnabledServices(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetEnabledServices(nil))

	cfg := &config.AppConfig{Services: "http,reaper"}
	services := GetEnabledServices(cfg)
	assert.ElementsMatch(t, []string{"http", "reaper"}, services)
}

func TestBuildSessionStore_RedisRequiresClient(t *testing.T) {
	t.Parallel()

	cfg := &config.AppConfig{}
	cfg.Session.Backend = config.SessionBackendRedis

	_, err := BuildSessionStore(ServicesConfig{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestBuildSessionStore_PostgresRequiresDB(t *testing.T) {
	t.Parallel()

	cfg := &config.AppConfig{}
	cfg.Session.Backend = config.SessionBackendPostgres

	_, err := BuildSessionStore(ServicesConfig{Config: cfg})
	require.Error(t, err)
}

func TestBuildServices_RequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := BuildServices(ServicesConfig{})
	require.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "warbler_session", cfg.Session.CookieName)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WARBLER_DATABASE_DRIVER", "sqlite")
	t.Setenv("WARBLER_DATABASE_DSN", "file::memory:")
	t.Setenv("WARBLER_REDIS_ENABLED", "true")
	t.Setenv("WARBLER_SESSION_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestLoad_ConventionalEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/warbler")
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgresql://u:p@db:5432/warbler", cfg.Database.DSN)
	assert.Equal(t, ":5000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Addr: ":8080", Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"},
			Session:  SessionConfig{Secret: "s3cr3t", TTL: time.Hour, CookieName: "warbler_session"},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.Session.Secret = ""
	assert.Error(t, c.Validate())

	c = base()
	c.Server.Mode = "release"
	c.Session.Secret = DefaultSessionSecret
	assert.Error(t, c.Validate())
}

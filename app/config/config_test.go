package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	cfg, err := Unmarshal([]byte(`
http:
  addr: ":9000"
database:
  dialect: mysql
  host: db.internal
  name: cms
session:
  ttl: 2h
admin:
  public_url: https://blog.example.org
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "cms", cfg.Database.Name)
	assert.Equal(t, "5432", cfg.Database.Port, "unset keys keep their defaults")
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "https://blog.example.org", cfg.Admin.PublicURL)
	assert.Equal(t, "Sales Admin", cfg.Admin.SiteHeader)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DATABASE_URL":   "postgres://u:p@h:5432/db",
		"DB_DRIVER":      "postgres",
		"SESSION_SECRET": "topsecret",
		"SESSION_TTL":    "30m",
		"SESSION_SECURE": "true",
		"LOG_LEVEL":      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "postgres://u:p@h:5432/db", cfg.Database.URL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "topsecret", cfg.Session.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, "info", cfg.LogLevel, "empty values do not override")
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsBadDuration(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "SESSION_TTL" {
			return "forever", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.Dialect = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Database.Driver = "odbc"
	assert.Error(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "")
	t.Chdir(dir)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

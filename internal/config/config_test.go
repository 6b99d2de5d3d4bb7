package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: s3cret
  expiration: 2h
report:
  timezone: IST
database:
  name: gyms
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "gyms", cfg.Database.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5, cfg.Database.ConflictRetries)
	assert.Equal(t, "Asia/Kolkata", cfg.Report.Timezone)
	require.NotNil(t, cfg.Report.Location)
	assert.Equal(t, "Asia/Kolkata", cfg.Report.Location.String())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("RATELIMIT_LOGIN_BURST", "9")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 9, cfg.RateLimit.LoginBurst)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
	assert.Equal(t, time.UTC.String(), cfg.Report.Location.String())
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server:\n  address: \":8081\"\n"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfig_InvalidTimezone(t *testing.T) {
	dir := writeConfig(t, "jwt:\n  secret: x\nreport:\n  timezone: Mars/Olympus\n")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestResolveTimezone(t *testing.T) {
	assert.Equal(t, "America/New_York", ResolveTimezone("est"))
	assert.Equal(t, "Europe/Paris", ResolveTimezone(" Europe/Paris "))
	assert.Equal(t, "", ResolveTimezone(""))
}

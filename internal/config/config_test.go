package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-presence/internal/config"

	"github.com/stretchr/testify/assert"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("CREDENTIAL_KEY", testKey)
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("LOCATION_CONSENT", "true")
	t.Setenv("LOCATION_LATITUDE", "12.9")
	t.Setenv("LOCATION_LONGITUDE", "77.6")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "https://api.peppypresence.com:5003/api", cfg.AttendanceBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.Location.Consent)
	if assert.NotNil(t, cfg.Location.Latitude) {
		assert.Equal(t, 12.9, *cfg.Location.Latitude)
	}
	assert.Len(t, cfg.CredentialKey(), 32)
}

func TestLoad_YAMLFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presence.yml")
	yml := strings.Join([]string{
		"attendance_base_url: https://attendance.example.com/api",
		"http_timeout: 4s",
		"credential:",
		"  backend: plain",
		"  dir: " + dir,
		"location:",
		"  mode: http",
		"  url: https://geo.example.com/json",
	}, "\n")
	assert.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv(config.EnvConfigPath, path)
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com/api")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "https://attendance.example.com/api", cfg.AttendanceBaseURL)
	assert.Equal(t, "https://auth.example.com/api", cfg.AuthBaseURL)
	assert.Equal(t, 4*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, config.CredentialPlain, cfg.Credential.Backend)
	assert.Equal(t, config.LocationHTTP, cfg.Location.Mode)
}

func TestValidate(t *testing.T) {
	base := config.Default()
	base.Credential.Key = testKey

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, base.Validate())
	})

	t.Run("secure backend needs a key", func(t *testing.T) {
		cfg := base
		cfg.Credential.Key = "abc"
		assert.ErrorContains(t, cfg.Validate(), "credential.key")
	})

	t.Run("redis backend needs an address", func(t *testing.T) {
		cfg := base
		cfg.Credential.Backend = config.CredentialRedis
		assert.ErrorContains(t, cfg.Validate(), "redis.addr")
	})

	t.Run("relative url rejected", func(t *testing.T) {
		cfg := base
		cfg.AttendanceBaseURL = "/api"
		assert.ErrorContains(t, cfg.Validate(), "attendance_base_url")
	})

	t.Run("http location needs url", func(t *testing.T) {
		cfg := base
		cfg.Location.Mode = config.LocationHTTP
		assert.ErrorContains(t, cfg.Validate(), "location.url")
	})
}

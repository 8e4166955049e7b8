package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8001", cfg.HTTPAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.PasswordResetTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigin)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("PASSWORD_HASH_COST", "4")
	t.Setenv("DETERMINISTIC_USER_IDS", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("STORE_TIMEOUT", "garbage")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.GetTokenTTL())
	assert.Equal(t, 4, cfg.PasswordHashCost)
	assert.True(t, cfg.DeterministicUserIDs)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigin)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("APP_ENV", "")
	os.Unsetenv("APP_ENV")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nAPP_ENV=production\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("APP_ENV")
	})

	assert.Equal(t, "from-file", cfg.GetSigningKey())
	assert.True(t, cfg.IsProduction())
}

func TestValidate_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestValidate_SuperAdminNeedsPassword(t *testing.T) {
	cfg := &Config{
		JWTSecret:        "s",
		AccessTokenTTL:   time.Hour,
		PasswordResetTTL: time.Hour,
		SuperAdminEmail:  "root@x.com",
	}
	assert.Error(t, cfg.Validate())

	cfg.SuperAdminPassword = "pw"
	assert.NoError(t, cfg.Validate())
}

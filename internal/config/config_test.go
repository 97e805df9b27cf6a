package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars for the test's duration.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Development_AcceptsDefaultSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "change-this-access-secret", cfg.AccessTokenSecret)
	assert.Equal(t, "change-this-refresh-secret", cfg.RefreshTokenSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, TokenStorePostgres, cfg.TokenStore)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, "refreshToken", cfg.RefreshTokenCookieName)
}

func TestLoad_Production_RejectsDefaultAccessSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"REFRESH_TOKEN_SECRET": "a-sufficiently-long-refresh-secret-value-1234",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortRefreshSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  "a-sufficiently-long-access-secret-value-12345",
		"REFRESH_TOKEN_SECRET": "too-short-refresh-secret",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_SECRET must be at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecrets(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "production",
		"ACCESS_TOKEN_SECRET":  "a-sufficiently-long-access-secret-value-12345",
		"REFRESH_TOKEN_SECRET": "a-sufficiently-long-refresh-secret-value-1234",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_RejectsIdenticalSecrets(t *testing.T) {
	secret := "one-secret-shared-between-both-token-classes-xx"
	setEnvs(t, map[string]string{
		"ENVIRONMENT":          "development",
		"ACCESS_TOKEN_SECRET":  secret,
		"REFRESH_TOKEN_SECRET": secret,
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoad_RejectsUnknownTokenStore(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
		"TOKEN_STORE": "memcached",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TOKEN_STORE")
}

func TestPostgresDSN(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":       "development",
		"POSTGRES_HOST":     "db.internal",
		"POSTGRES_PORT":     "5433",
		"POSTGRES_USER":     "hris",
		"POSTGRES_PASSWORD": "pw",
		"POSTGRES_DB":       "hris_test",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://hris:pw@db.internal:5433/hris_test?sslmode=disable", cfg.PostgresDSN())
}

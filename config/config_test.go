package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "recipez")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recipez")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "recipez", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "recipez", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "JWT_SECRET", "REDIS_URL", "ENV", "CI"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "recipez", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	// Development fills in a throwaway secret so local runs just work
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
}

func TestProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "prod-secret")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("DB_PASSWORD", "prod-password")
	t.Setenv("DB_SSL_MODE", "require")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

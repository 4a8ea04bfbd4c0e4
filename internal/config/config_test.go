package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/payledger")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("ACCOUNT_CACHE_TTL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfig_RequiredFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/payledger")
	t.Setenv("JWT_SECRET", "")

	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/payledger")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "one hour")

	_, err := LoadConfig()
	assert.Error(t, err)
}

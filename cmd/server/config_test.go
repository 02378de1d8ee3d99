package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/factory"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
	"github.com/mcoot/rpsgame-go/internal/services/match"
)

func TestLoadEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "STORAGE_TYPE", "REDIS_URL", "JWT_SECRET", "TOKEN_TTL", "WIN_SCORE", "DRAW_SCORE", "LOSE_SCORE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	envCfg, err := loadEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, envCfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, envCfg.StorageType)

	cfg, err := envCfg.factoryConfig()
	require.NoError(t, err)
	assert.Equal(t, match.DefaultAwards(), cfg.Awards)
	assert.Equal(t, auth.DefaultConfig(), cfg.AuthConfig)
	assert.Nil(t, cfg.RedisConfig)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "5m")
	t.Setenv("WIN_SCORE", "2")
	t.Setenv("DRAW_SCORE", "0")
	t.Setenv("LOSE_SCORE", "-1")

	envCfg, err := loadEnv()
	require.NoError(t, err)

	cfg, err := envCfg.factoryConfig()
	require.NoError(t, err)
	assert.Equal(t, match.Awards{Win: 2, Lose: -1, Draw: 0}, cfg.Awards)
	assert.Equal(t, "s3cret", cfg.AuthConfig.Secret)
	assert.Equal(t, 5*time.Minute, cfg.AuthConfig.TokenTTL)

	server := envCfg.serverConfig()
	assert.Equal(t, "127.0.0.1", server.Host)
	assert.Equal(t, 9090, server.Port)
}

func TestLoadEnv_RedisRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "")

	envCfg, err := loadEnv()
	require.NoError(t, err)

	_, err = envCfg.factoryConfig()
	assert.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	envCfg, err = loadEnv()
	require.NoError(t, err)
	cfg, err := envCfg.factoryConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.RedisConfig)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisConfig.URL)
}

func TestLoadEnv_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := loadEnv()
	assert.Error(t, err)
}

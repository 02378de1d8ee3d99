package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/rpsgame-go/internal/api"
	"github.com/mcoot/rpsgame-go/internal/factory"
	"github.com/mcoot/rpsgame-go/internal/services/auth"
	"github.com/mcoot/rpsgame-go/internal/services/match"
	redisstorage "github.com/mcoot/rpsgame-go/internal/storage/redis"
)

// serverEnv is the process configuration read from the environment
type serverEnv struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"rpsgame"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"rpsgame-clients"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"60m"`

	WinScore  int `env:"WIN_SCORE" envDefault:"3"`
	DrawScore int `env:"DRAW_SCORE" envDefault:"1"`
	LoseScore int `env:"LOSE_SCORE" envDefault:"0"`
}

// loadEnv parses the environment into a serverEnv
func loadEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := env.Parse(&cfg); err != nil {
		return serverEnv{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// factoryConfig converts the environment into application wiring config
func (e serverEnv) factoryConfig() (factory.Config, error) {
	cfg := factory.Config{
		StorageType: e.StorageType,
		Awards: match.Awards{
			Win:  e.WinScore,
			Lose: e.LoseScore,
			Draw: e.DrawScore,
		},
	}

	// Configure Redis if storage type is redis
	if e.StorageType == factory.StorageTypeRedis {
		if e.RedisURL == "" {
			return factory.Config{}, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = e.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	authCfg := auth.DefaultConfig()
	if e.JWTSecret != "" {
		authCfg.Secret = e.JWTSecret
	}
	authCfg.Issuer = e.JWTIssuer
	authCfg.Audience = e.JWTAudience
	authCfg.TokenTTL = e.TokenTTL
	cfg.AuthConfig = authCfg

	return cfg, nil
}

// serverConfig applies the listen address to the default server settings
func (e serverEnv) serverConfig() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = e.Host
	cfg.Port = e.Port
	return cfg
}

package config

import (
	"os"

	pkgcfg "github.com/roamstay/marketplace/pkg/config"
)

type Config struct {
	ListenAddr string
	AuthURL    string
	StaysURL   string
	RedisURL   string
	JWTSecret  []byte
	LogLevel   string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr: pkgcfg.EnvDefault("GATEWAY_ADDR", ":8080"),
		AuthURL:    os.Getenv("AUTH_URL"),
		StaysURL:   os.Getenv("STAYS_URL"),
		RedisURL:   pkgcfg.EnvDefault("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:  []byte(os.Getenv("JWT_SECRET")),
		LogLevel:   pkgcfg.EnvDefault("LOG_LEVEL", "info"),
	}

	cfg.AuthURL = pkgcfg.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	cfg.StaysURL = pkgcfg.MustNonEmpty(cfg.StaysURL, "STAYS_URL")
	cfg.JWTSecret = pkgcfg.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}

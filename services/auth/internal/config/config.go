package config

import (
	"context"
	"os"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/gorm"

	pkgcfg "github.com/roamstay/marketplace/pkg/config"
	pkgdb "github.com/roamstay/marketplace/pkg/db"
	"github.com/roamstay/marketplace/services/auth/internal/models"
)

type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   []byte
	AccessTTL   time.Duration

	KafkaBrokers []string

	SMSAPIURL   string
	SMSAPIToken string
	SMSSender   string

	MailAPIURL   string
	MailAPIToken string
	MailFrom     string

	BaseURL  string
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Addr:        pkgcfg.EnvDefault("AUTH_ADDR", ":8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:   pkgcfg.EnvDurationDefault("ACCESS_TOKEN_TTL", time.Hour),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		SMSAPIURL:   os.Getenv("SMS_API_URL"),
		SMSAPIToken: os.Getenv("SMS_API_TOKEN"),
		SMSSender:   pkgcfg.EnvDefault("SMS_SENDER", "Roamstay"),

		MailAPIURL:   os.Getenv("MAIL_API_URL"),
		MailAPIToken: os.Getenv("MAIL_API_TOKEN"),
		MailFrom:     pkgcfg.EnvDefault("MAIL_FROM", "no-reply@roamstay.io"),

		BaseURL:  pkgcfg.EnvDefault("APP_BASE_URL", "http://localhost:8080"),
		LogLevel: pkgcfg.EnvDefault("LOG_LEVEL", "info"),
	}

	cfg.DatabaseURL = pkgcfg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	cfg.RedisURL = pkgcfg.MustNonEmpty(cfg.RedisURL, "REDIS_URL")
	cfg.JWTSecret = pkgcfg.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.HostProfile{}, &models.PasswordResetToken{}); err != nil {
		return nil, err
	}
	return db, nil
}

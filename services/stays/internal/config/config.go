package config

import (
	"context"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/gorm"

	pkgcfg "github.com/roamstay/marketplace/pkg/config"
	pkgdb "github.com/roamstay/marketplace/pkg/db"
	"github.com/roamstay/marketplace/services/stays/internal/models"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Addr:        pkgcfg.EnvDefault("STAYS_ADDR", ":8082"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "stays"),

		LogLevel: pkgcfg.EnvDefault("LOG_LEVEL", "info"),
	}

	cfg.DatabaseURL = pkgcfg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	cfg.JWTSecret = pkgcfg.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Stay{}); err != nil {
		return nil, err
	}
	return db, nil
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/roamstay/marketplace/gateway/internal/config"
	"github.com/roamstay/marketplace/gateway/internal/httpserver"
	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/logging"
	"github.com/roamstay/marketplace/pkg/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redis, err := kvstore.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redis.Close()

	codec := &tokens.Codec{Secret: cfg.JWTSecret, Denylist: redis}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:  cfg.AuthURL,
		StaysURL: cfg.StaysURL,
		Codec:    codec,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()
	logger.Info("gateway started", "addr", cfg.ListenAddr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}

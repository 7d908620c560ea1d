package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/roamstay/marketplace/pkg/events"
	"github.com/roamstay/marketplace/pkg/kvstore"
	"github.com/roamstay/marketplace/pkg/logging"
	loggingmw "github.com/roamstay/marketplace/pkg/middleware/logging"
	"github.com/roamstay/marketplace/pkg/tokens"
	authcfg "github.com/roamstay/marketplace/services/auth/internal/config"
	"github.com/roamstay/marketplace/services/auth/internal/httpserver"
	"github.com/roamstay/marketplace/services/auth/internal/notify"
	"github.com/roamstay/marketplace/services/auth/internal/repo"
	"github.com/roamstay/marketplace/services/auth/internal/service"
)

func main() {
	if err := godotenv.Load("services/auth/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := authcfg.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := authcfg.InitDB(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("db init: %v", err)
	}

	store, err := kvstore.NewRedis(initCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatalf("redis init: %v", err)
	}
	defer store.Close()

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	codec := &tokens.Codec{
		Secret:   cfg.JWTSecret,
		Denylist: store,
	}

	svc := &service.AuthService{
		Repo:      repo.GormRepo{DB: db},
		Codec:     codec,
		Codes:     store,
		SMS:       notify.NewSMSClient(cfg.SMSAPIURL, cfg.SMSAPIToken, cfg.SMSSender),
		Mail:      notify.NewMailClient(cfg.MailAPIURL, cfg.MailAPIToken, cfg.MailFrom),
		Producer:  producer,
		AccessTTL: cfg.AccessTTL,
		BaseURL:   cfg.BaseURL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: svc},
		Codec:       codec,
	})

	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}

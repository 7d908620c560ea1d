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
	"github.com/roamstay/marketplace/pkg/logging"
	loggingmw "github.com/roamstay/marketplace/pkg/middleware/logging"
	"github.com/roamstay/marketplace/pkg/tokens"
	stayscfg "github.com/roamstay/marketplace/services/stays/internal/config"
	"github.com/roamstay/marketplace/services/stays/internal/httpserver"
	"github.com/roamstay/marketplace/services/stays/internal/repo"
	"github.com/roamstay/marketplace/services/stays/internal/search"
	"github.com/roamstay/marketplace/services/stays/internal/service"
)

func main() {
	if err := godotenv.Load("services/stays/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := stayscfg.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := stayscfg.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var index service.SearchIndex
	if cfg.ESURL != "" {
		idx, err := search.NewIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		index = idx
	} else {
		logger.Warn("ES_URL not set, stay search disabled")
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	codec := &tokens.Codec{Secret: cfg.JWTSecret}

	svc := &service.StaysService{
		Repo:     repo.GormRepo{DB: db},
		Index:    index,
		Producer: producer,
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
		StaysHandler: &httpserver.StaysHTTP{Svc: svc},
		Codec:        codec,
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

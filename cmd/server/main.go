package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/marketplace/internal/httpserver"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/search"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/pkg/config"
	"github.com/Skotchmaster/marketplace/pkg/db"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/lock"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustServe()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	if err := models.Migrate(gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	var producer events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		producer = kp
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(initCtx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			// search falls back to the database
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			pi := &search.ProductIndex{ES: es, Index: cfg.ESIndex}
			if err := pi.EnsureIndex(initCtx); err != nil {
				logger.Warn("elasticsearch_index_failed", "index", cfg.ESIndex, "error", err)
			}
			index = pi
		}
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	var closeRedis func() error
	if cfg.RedisURL != "" {
		rc, err := lock.NewRedisClient(initCtx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis_init_failed", "error", err)
			os.Exit(1)
		}
		locker = lock.NewRedisLocker(rc, cfg.ServiceName+":lock:")
		closeRedis = rc.Close
	}

	issuer := tokens.NewIssuer(tokens.NewKeyring(cfg.JWTKeyID, cfg.JWTSecret, cfg.JWTPreviousKeys), cfg.TokenTTL)
	m := metrics.New()
	r := repo.New(gdb)

	deps := &httpserver.Deps{
		Accounts: &service.AccountService{Repo: r, Tokens: issuer, Events: producer, Metrics: m},
		Catalog:  &service.CatalogService{Repo: r, Index: index, Events: producer},
		Cart:     &service.CartService{Repo: r, Events: producer},
		Orders:   &service.OrderService{Repo: r, Locks: locker, Events: producer, Metrics: m},
		Skills:   &service.SkillService{Repo: r, Events: producer},
		Tokens:   issuer,
		Metrics:  m,
		Ready:    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}

	e := httpserver.New(httpserver.ServerConfig{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimit:      cfg.RateLimit,
	}, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(e, cfg.ServiceName),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}

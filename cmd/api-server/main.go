package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
	"github.com/agendasaude/healthcare-scheduling/internal/api"
	"github.com/agendasaude/healthcare-scheduling/internal/appointment"
	"github.com/agendasaude/healthcare-scheduling/internal/auth"
	"github.com/agendasaude/healthcare-scheduling/internal/config"
	"github.com/agendasaude/healthcare-scheduling/internal/db"
	redisclient "github.com/agendasaude/healthcare-scheduling/internal/redis"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	var log *zap.Logger
	if cfg.Env == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger init error: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.Duration("token_ttl", cfg.TokenTTL),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	log.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.New(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn("error closing redis", zap.Error(err))
		}
	}()
	log.Info("connected to Redis")

	accountRepo := account.NewPgRepository(pgPool)
	accountSvc := account.NewService(accountRepo)

	appointmentRepo := appointment.NewPgRepository(pgPool)
	appointmentSvc := appointment.NewService(appointmentRepo)

	resetStore := auth.NewRedisResetStore(rdb)
	authSvc := auth.NewService(accountRepo, resetStore, cfg.JWTSecret, cfg.TokenTTL, cfg.ResetTokenTTL)

	router := api.NewRouter(api.RouterConfig{
		Accounts:     accountSvc,
		Appointments: appointmentSvc,
		Auth:         authSvc,
		Logger:       log,
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

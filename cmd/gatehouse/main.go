package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gatehouse/gatehouse/internal/application/auth"
	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/config"
	httprouter "github.com/gatehouse/gatehouse/internal/infrastructure/http"
	"github.com/gatehouse/gatehouse/internal/infrastructure/http/handlers"
	"github.com/gatehouse/gatehouse/internal/infrastructure/http/middleware"
	"github.com/gatehouse/gatehouse/internal/infrastructure/persistence/memory"
	"github.com/gatehouse/gatehouse/internal/infrastructure/persistence/postgres"
	"github.com/gatehouse/gatehouse/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	var store ports.UserStore
	var healthHandler *handlers.HealthHandler
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
		healthHandler = handlers.NewHealthHandler(nil)
	default:
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		store = postgres.NewUserStore(pool)
		healthHandler = handlers.NewHealthHandler(pool)
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens := security.NewRandTokenSource()

	svc := auth.NewService(store, hasher, tokens)
	authHandler := handlers.NewAuthHandler(svc, log)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		HealthHandler: healthHandler,
		Log:           log,
		Secure:        middleware.NewSecure(middleware.SecureOptions(cfg.DevMode)),
		Metrics:       cfg.Metrics.Enabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("stopped")
}

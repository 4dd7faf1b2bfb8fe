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

	"github.com/mobmart/storefront/config"
	"github.com/mobmart/storefront/internal/llm"
	"github.com/mobmart/storefront/internal/logger"
	"github.com/mobmart/storefront/internal/mob"
	"github.com/mobmart/storefront/internal/mongodb"
	"github.com/mobmart/storefront/internal/postgres"
	rediscache "github.com/mobmart/storefront/internal/redis"
	"github.com/mobmart/storefront/internal/security"
	"github.com/mobmart/storefront/internal/service"
	httpx "github.com/mobmart/storefront/internal/transport/http"
	"github.com/mobmart/storefront/internal/transport/ws"

	"github.com/joho/godotenv"
)

func main() {
	// --- env & config ---
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting storefront",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- mongo (корзины) ---
	mdb, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() { _ = mdb.Close(ctx) }()

	// --- redis (кэш подсказок; без него живём) ---
	var cache *rediscache.Client
	if cfg.Redis.Addr != "" {
		cache, err = rediscache.New(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			slog.Warn("redis unavailable, suggestion cache disabled", "err", err)
			cache = nil
		}
	}

	// --- repos ---
	catalogRepo := postgres.NewCatalogRepository(db.Pool)
	userRepo := postgres.NewUserRepository(db.Pool)
	cartRepo := mongodb.NewCartRepository(mdb)

	// --- services ---
	signer := security.NewJWTSigner(cfg.Auth.JWTSecret, cfg.TokenTTLOr(24*time.Hour))
	catalogSvc := service.NewCatalogService(catalogRepo)
	userSvc := service.NewUserService(userRepo, signer)
	cartSvc := service.NewCartService(cartRepo, catalogRepo)
	suggestSvc := service.NewSuggestService(catalogRepo,
		llm.NewGeminiClient(cfg.LLM.APIKey, cfg.LLM.Model), cache)

	// --- mob coordinator & WS ---
	hub := ws.NewHub()
	coordinator := mob.NewCoordinator(mob.NewRegistry(), hub,
		mob.WithDuration(cfg.MobDurationOr(mob.DefaultDuration)))
	wsServer := ws.NewServer(coordinator)

	// --- HTTP ---
	handler := httpx.NewHandler(catalogSvc, userSvc, cartSvc, suggestSvc)
	router := httpx.NewRouter(handler, signer, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}

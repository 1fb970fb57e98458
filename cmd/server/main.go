package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "greenspark-backend/docs"
	"greenspark-backend/internal/auth"
	"greenspark-backend/internal/cache"
	"greenspark-backend/internal/config"
	"greenspark-backend/internal/handlers"
	"greenspark-backend/internal/hub"
	"greenspark-backend/internal/logging"
	"greenspark-backend/internal/mailer"
	ratelimit "greenspark-backend/internal/middleware"
	"greenspark-backend/internal/natsbus"
	"greenspark-backend/internal/notify"
	"greenspark-backend/internal/respond"
	"greenspark-backend/internal/services"
	"greenspark-backend/internal/storage"
)

const inlineDeliveryTimeout = 30 * time.Second

// @title GreenSpark API
// @version 1.0
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("").Error(context.Background(), "invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info(ctx, "storage ready", "driver", cfg.StorageDriver)

	// Redis (optional): login rate limiting and the logout denylist
	var (
		limit   func(http.Handler) http.Handler
		revoked auth.RevocationList
	)
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		limit = ratelimit.RateLimitAuth(redisClient, cfg.LoginRateLimit, cfg.RateLimitWindow, logger)
		if cfg.RevokeOnLogout {
			revoked = redisClient
		}
		logger.Info(ctx, "connected to Redis", "revoke_on_logout", cfg.RevokeOnLogout)
	}

	// Sessions
	tokens, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	if err != nil {
		return err
	}
	authenticator := auth.NewAuthenticator(tokens, store, revoked)
	cookies := auth.CookiePolicy{Secure: cfg.SecureCookies(), MaxAge: tokens.TTL()}

	// Notifications
	mail, err := mailer.New(cfg)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(mail, services.NewSlackClient(cfg.SlackWebhookURL), logger)

	liveFeed := hub.NewHub(cfg.AllowedOrigin, logger)
	defer liveFeed.Close()

	notifiers := []handlers.CampaignNotifier{liveFeed}

	var (
		consumer *notify.Consumer
		inline   *notify.Inline
	)
	if cfg.NATSURL != "" {
		natsClient, err := natsbus.Connect(ctx, natsbus.Options{
			URL:       cfg.NATSURL,
			CredsFile: cfg.NATSCredsFile,
			NKeySeed:  cfg.NATSNKeySeed,
		}, logger)
		if err != nil {
			return err
		}
		defer natsClient.Close()

		consumer = notify.NewConsumer(natsClient.JS(), dispatcher, logger)
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		notifiers = append(notifiers, natsbus.NewPublisher(natsClient.JS()))
	} else {
		inline = notify.NewInline(dispatcher, inlineDeliveryTimeout)
		notifiers = append(notifiers, inline)
	}

	// HTTP handlers
	authHandler := auth.NewHandler(store, authenticator, cookies, logger)
	campaignHandler := handlers.New(store, logger, notifiers...)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health(store))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/api/campaigns/stream", liveFeed.ServeWS)
	authHandler.RegisterRoutes(r, limit)
	campaignHandler.RegisterRoutes(r, auth.Middleware(authenticator, logger))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}

		logger.Info(context.Background(), "shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "server starting", "addr", server.Addr, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped

	cancel()
	if consumer != nil {
		_ = consumer.Stop()
	}
	if inline != nil {
		inline.Wait()
	}
	logger.Info(context.Background(), "server stopped")
	return nil
}

func health(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/01moynul/aitools-golang/internal/ai"
	"github.com/01moynul/aitools-golang/internal/auth"
	"github.com/01moynul/aitools-golang/internal/billing"
	"github.com/01moynul/aitools-golang/internal/cache"
	"github.com/01moynul/aitools-golang/internal/config"
	"github.com/01moynul/aitools-golang/internal/database"
	"github.com/01moynul/aitools-golang/internal/handlers"
	"github.com/01moynul/aitools-golang/internal/logging"
	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/01moynul/aitools-golang/internal/routes"
	"github.com/01moynul/aitools-golang/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("API server stopped")
	}
}

func run() error {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Format: cfg.Log.Format, Level: cfg.Log.Level, Component: "api"})
	if cfg.Server.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Main Database Connection ---
	db, err := database.OpenDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.New(db)

	// 1b. --- Read-Only Connection (optional) ---
	if cfg.DB.DSNReadOnly != "" {
		dbReadOnly, err := database.OpenDBWithDSN(ctx, cfg.DB, cfg.DB.DSNReadOnly)
		if err != nil {
			return err
		}
		defer dbReadOnly.Close()
		st.WithReader(dbReadOnly)
	}

	// 2. --- Billing and Quota ---
	evaluator := billing.NewEvaluator(st, cfg.Quota.Grace)
	limits := quota.DefaultLimits().With(cfg.Quota.LimitOverrides)
	gate := quota.NewGate(evaluator, st, limits)
	recorder := quota.NewRecorder(st)

	// 3. --- AI Service Initialization ---
	openAI := ai.NewOpenAIProvider(cfg.OpenAI)
	var text ai.TextGenerator = openAI
	if cfg.Quota.TextProvider == "gemini" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return err
		}
		defer gemini.Close()
		text = gemini
	}
	log.Info().Str("text_provider", cfg.Quota.TextProvider).Msg("AI providers ready")

	app := &handlers.Handlers{
		Store:      st,
		Gate:       gate,
		Recorder:   recorder,
		Billing:    evaluator,
		Limits:     limits,
		TextAI:     text,
		ImageAI:    openAI,
		SpeechAI:   openAI,
		VideoAI:    ai.NewReplicateClient(cfg.Video),
		ImageRetry: ai.ImageRetryConfig(),
		PayPal:     cfg.PayPal,
		Production: cfg.Server.Production,
	}

	// 4. --- Image Cache (optional) ---
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, image cache disabled")
		} else {
			defer client.Close()
			app.ImageCache = cache.NewImageCache(client, cfg.Redis.TTL)
		}
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Tokens:          auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		MaintenanceMode: cfg.Server.MaintenanceMode,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Start Server ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Starting AI tools API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

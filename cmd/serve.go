package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mathtrail/mathtrail/internal/api"
	"github.com/mathtrail/mathtrail/internal/config"
	"github.com/mathtrail/mathtrail/internal/llm"
	"github.com/mathtrail/mathtrail/internal/middleware"
	"github.com/mathtrail/mathtrail/internal/problems"
	"github.com/mathtrail/mathtrail/internal/store"
	"github.com/mathtrail/mathtrail/web"
)

// runServer wires the store, model provider, domain service and HTTP
// surface, then serves until interrupted.
func runServer(cmd *cobra.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	// Flags win over env vars.
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	slog.Info("Starting server", "port", cfg.Port, "provider", cfg.LLM.Provider)

	repo, err := store.OpenFile(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return err
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		return err
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	provider, err := llm.NewProvider(context.Background(), cfg.LLM, repo, logger)
	if err != nil {
		slog.Error("Failed to initialize model provider", "error", err)
		return err
	}
	slog.Info("Model provider ready", "model", provider.ModelID())

	svc := problems.NewService(provider, repo, problems.DefaultConfig(), logger)
	handler := api.NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	handler.RegisterRoutes(r)
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Model calls can take a while; the write timeout must outlast the
		// slowest provider response.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server stopped")
	return nil
}

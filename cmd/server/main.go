// mathlab - blog and interactive math simulations server
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/mathlab/internal/api"
	"github.com/ashureev/mathlab/internal/config"
	"github.com/ashureev/mathlab/internal/content"
	"github.com/ashureev/mathlab/internal/dilemma"
	"github.com/ashureev/mathlab/internal/identity"
	"github.com/ashureev/mathlab/internal/logging"
	"github.com/ashureev/mathlab/internal/middleware"
	"github.com/ashureev/mathlab/internal/session"
	"github.com/ashureev/mathlab/internal/store"
	"github.com/ashureev/mathlab/posts"
	"github.com/ashureev/mathlab/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLogs, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("Failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := closeLogs(); closeErr != nil {
			slog.Error("Failed to close log outputs", "error", closeErr)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "container", config.IsContainer())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	var postsFS fs.FS = posts.FS
	if cfg.PostsDir != "" {
		postsFS = os.DirFS(cfg.PostsDir)
	}
	postStore, err := content.Load(context.Background(), postsFS)
	if err != nil {
		slog.Error("Failed to load posts", "error", err, "dir", cfg.PostsDir)
		os.Exit(1)
	}
	slog.Info("Posts loaded", "count", postStore.Len())

	// Games dropped for inactivity still count toward lifetime stats.
	games := session.NewManager(func(visitorID, sessionID string, summary dilemma.Summary) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := repo.RecordDilemmaGame(ctx, visitorID, summary); err != nil {
			slog.Error("Failed to record evicted game", "error", err, "visitor_id", visitorID, "session_id", sessionID)
		}
	})

	// Initialize handlers.
	base := api.NewHandler(repo, postStore, games, cfg)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	api.NewHealthHandler(base).RegisterRoutes(r)
	api.NewPostsHandler(base).RegisterRoutes(r)
	api.NewStaircaseHandler(base).RegisterRoutes(r)
	api.NewDilemmaHandler(base).RegisterRoutes(r)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Animation streams are long-lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// In-flight animations end with the server context.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	session.StartSweeper(ctx, games, cfg.Session.TTL, cfg.Session.SweepInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

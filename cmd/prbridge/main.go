package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prbridge/internal/adapter/driven/github"
	"github.com/ericfisherdev/prbridge/internal/adapter/driven/rocketchat"
	sqliteadapter "github.com/ericfisherdev/prbridge/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/prbridge/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/prbridge/internal/adapter/driving/web"
	"github.com/ericfisherdev/prbridge/internal/application"
	"github.com/ericfisherdev/prbridge/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"team_mappings", len(cfg.TeamRooms),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	notifStore := sqliteadapter.NewNotificationRepo(db)
	prStore := sqliteadapter.NewPRRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	// 6. Create chat client (may be nil if no credentials configured).
	var chatClient *rocketchat.Client
	if cfg.HasChatCredentials() {
		chatClient, err = rocketchat.NewClient(cfg.ChatBaseURL, cfg.ChatUserID, cfg.ChatAuthToken, cfg.ChatAlias, cfg.ChatAvatar)
		if err != nil {
			return err
		}
		slog.Info("chat client created", "base_url", cfg.ChatBaseURL)
	} else {
		slog.Info("no chat credentials configured, events will be acknowledged but not notified")
	}

	// 6b. Create ChatClientProvider for hot-swap.
	provider := application.NewChatClientProvider(nil)
	if chatClient != nil {
		provider.Replace(chatClient)
	}

	// 7. Create the reconciler.
	teamRooms := application.NewTeamRooms(cfg.TeamRooms)
	reconciler := application.NewReconciler(provider, notifStore, prStore, ghClient, teamRooms)

	// 7.5. Create HTTP handler and register webhook + API routes.
	apiHandler := httphandler.NewHandler(reconciler, notifStore, cfg.WebhookSecret, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7.6. Create web handler and register dashboard route.
	dashHandler := webhandler.NewHandler(prStore, notifStore, slog.Default())
	webhandler.RegisterRoutes(mux, dashHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("prbridge started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain the HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}

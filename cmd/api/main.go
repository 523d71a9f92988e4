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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zhouzirui/orgchat/backend/internal/analysis/debug"
	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/config"
	"github.com/zhouzirui/orgchat/backend/internal/handler"
	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/metrics"
	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
	"github.com/zhouzirui/orgchat/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if envErr != nil {
		logger.Debug("no .env file loaded, using system environment only", "error", envErr)
	}

	classifier, err := loadClassifier(cfg.Chat.SignaturesFile)
	if err != nil {
		logger.Error("failed to load debug signatures", "file", cfg.Chat.SignaturesFile, "error", err)
		os.Exit(1)
	}

	backendClient := backend.New(cfg.Backend.URL, backend.WithTimeout(cfg.Backend.Timeout))
	chatMetrics := metrics.MustNew(prometheus.DefaultRegisterer)

	chatService := chat.NewService(
		auth.Forwarder{Client: backendClient},
		chat.WithClassifier(classifier),
		chat.WithMetrics(chatMetrics),
		chat.WithLogger(logger.With("component", "chat")),
	)

	router := handler.NewRouter(handler.Dependencies{
		Backend:         backendClient,
		Resolver:        auth.NewResolver(backendClient, cfg.Auth.CacheSize, cfg.Auth.CacheTTL, logger.With("component", "auth")),
		Chat:            chatService,
		Agents:          agent.NewMemoryStore(agent.Seed()),
		Classifier:      classifier,
		Logger:          logger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		CookieSecure:    cfg.Server.CookieSecure,
		RenderCacheSize: cfg.Chat.RenderCacheSize,
	})

	logger.Info("backend configured", "url", backendClient.BaseURL(), "timeout", cfg.Backend.Timeout)
	startServer(ctx, logger, cfg.Server, router)
}

// loadClassifier uses the signature file when one is configured.
func loadClassifier(path string) (*debug.Classifier, error) {
	if path == "" {
		return debug.Default(), nil
	}
	sigs, err := debug.LoadSignatures(path)
	if err != nil {
		return nil, err
	}
	return debug.NewClassifier(sigs), nil
}

func startServer(ctx context.Context, logger *slog.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("OrgChat backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

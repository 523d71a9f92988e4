package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/orgchat/backend/internal/analysis/debug"
	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/handler/account"
	agentHandler "github.com/zhouzirui/orgchat/backend/internal/handler/agent"
	chatHandler "github.com/zhouzirui/orgchat/backend/internal/handler/chat"
	formatHandler "github.com/zhouzirui/orgchat/backend/internal/handler/format"
	"github.com/zhouzirui/orgchat/backend/internal/handler/users"
	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
	chatService "github.com/zhouzirui/orgchat/backend/internal/service/chat"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Dependencies are the services the HTTP surface is wired to.
type Dependencies struct {
	Backend    *backend.Client
	Resolver   *auth.Resolver
	Chat       *chatService.Service
	Agents     agent.Store
	Classifier *debug.Classifier
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	AllowedOrigins  []string
	CookieSecure    bool
	RenderCacheSize int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	logger := logging.OrNop(deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Use(deps.Resolver.Authenticate)

		api.Get("/health", backendHealth(deps.Backend))

		agentHandler.New(deps.Agents).RegisterRoutes(api)
		formatHandler.New(deps.Classifier).RegisterRoutes(api)
		account.New(deps.Backend, deps.Resolver, deps.CookieSecure, logger).RegisterRoutes(api)
		users.New(deps.Backend).RegisterRoutes(api)

		api.Route("/chat", func(chat chi.Router) {
			chat.Use(auth.RequirePage(auth.PageChat))
			chatHandler.New(deps.Chat, deps.RenderCacheSize, logger).RegisterRoutes(chat)
		})
	})

	return r
}

// backendHealth proxies the backend probe so the UI can show a connectivity banner.
func backendHealth(client *backend.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h, err := client.Health(r.Context())
		if err != nil {
			status, msg := backend.ProxyStatus(err)
			if status < http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			utils.RespondError(w, status, msg)
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":    h.Status,
			"backend":   client.BaseURL(),
			"latencyMs": time.Since(start).Milliseconds(),
		})
	}
}

// Package account serves sign-in, sign-out and the caller's identity and navigation.
package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/model/user"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Handler 账号相关的HTTP处理器
type Handler struct {
	client       *backend.Client
	resolver     *auth.Resolver
	cookieSecure bool
	logger       *slog.Logger
}

// New 创建账号处理器
func New(client *backend.Client, resolver *auth.Resolver, cookieSecure bool, logger *slog.Logger) *Handler {
	return &Handler{
		client:       client,
		resolver:     resolver,
		cookieSecure: cookieSecure,
		logger:       logging.OrNop(logger).With("component", "account"),
	}
}

// RegisterRoutes 注册账号路由。需要挂在 Authenticate 之后。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
	r.Get("/navigation", h.handleNavigation)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the token for non-browser clients; browsers use the cookie.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        user.User `json:"user"`
	Home        string    `json:"home"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := h.client.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		status, msg := backend.ProxyStatus(err)
		h.logger.Info("[auth] login failed", "username", creds.Username, "status", status)
		utils.RespondError(w, status, msg)
		return
	}

	u, err := h.resolver.Resolve(r.Context(), tok.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInactive):
			utils.RespondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, auth.ErrUnauthenticated):
			utils.RespondError(w, http.StatusUnauthorized, err.Error())
		default:
			status, msg := backend.ProxyStatus(err)
			utils.RespondError(w, status, msg)
		}
		return
	}

	auth.SetTokenCookie(w, tok.AccessToken, h.cookieSecure)
	h.logger.Info("[auth] signed in", "username", u.Username, "role", u.Role)
	utils.RespondJSON(w, http.StatusOK, LoginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "bearer",
		User:        u,
		Home:        auth.HomePath(u),
	})
}

func readCredentials(r *http.Request) (credentials, error) {
	var creds credentials
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		creds.Username = r.FormValue("username")
		creds.Password = r.FormValue("password")
	default:
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return credentials{}, errors.New("invalid request body")
		}
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return credentials{}, errors.New("username and password are required")
	}
	return creds, nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		h.resolver.Forget(token)
	}
	auth.ClearTokenCookie(w, h.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) handleNavigation(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, auth.Navigation(u))
}

// Package users relays account management to the backend with the caller's token.
package users

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/model/user"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Handler 用户管理处理器
type Handler struct {
	client *backend.Client
}

// New 创建用户管理处理器
func New(client *backend.Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes 注册用户管理路由。读接口对 hr 和 admin 开放，写接口只对 admin 开放。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleHR, user.RoleAdmin))
			r.Get("/", h.handleList)
			r.Get("/{userID}", h.handleGet)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin))
			r.Post("/", h.handleCreate)
			r.Put("/{userID}", h.handleUpdate)
			r.Delete("/{userID}", h.handleDelete)
			r.Patch("/{userID}/activate", h.handleActivate)
			r.Patch("/{userID}/deactivate", h.handleDeactivate)
		})
	})
}

func (h *Handler) clientFor(r *http.Request) *backend.Client {
	return h.client.WithToken(auth.TokenFromContext(r.Context()))
}

func respondUpstream(w http.ResponseWriter, err error) {
	status, msg := backend.ProxyStatus(err)
	utils.RespondError(w, status, msg)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		utils.RespondError(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		utils.RespondError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}

	users, err := h.clientFor(r).ListUsers(r.Context(), skip, limit)
	if err != nil {
		respondUpstream(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.clientFor(r).GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondUpstream(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload user.CreateUser
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := user.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := h.clientFor(r).CreateUser(r.Context(), payload)
	if err != nil {
		respondUpstream(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload user.UpdateUser
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := user.Validate(payload); err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := h.clientFor(r).UpdateUser(r.Context(), chi.URLParam(r, "userID"), payload)
	if err != nil {
		respondUpstream(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

type statusResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.relayStatus(w, r, h.clientFor(r).DeleteUser)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.relayStatus(w, r, h.clientFor(r).ActivateUser)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.relayStatus(w, r, h.clientFor(r).DeactivateUser)
}

func (h *Handler) relayStatus(w http.ResponseWriter, r *http.Request, call func(ctx context.Context, id string) (string, error)) {
	msg, err := call(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondUpstream(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, statusResponse{Message: msg})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

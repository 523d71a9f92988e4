package agent

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Handler agent目录的HTTP处理器
type Handler struct {
	agents agent.Store
}

// New 创建agent处理器
func New(agents agent.Store) *Handler {
	return &Handler{
		agents: agents,
	}
}

// RegisterRoutes 注册agent相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/agents", h.handleListAgents)
	r.Get("/agents/lookup", h.handleLookupAgent)
}

// handleListAgents 列出所有agent
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.agents.List())
}

// handleLookupAgent resolves the agent named in a reply's agentUsed.
func (h *Handler) handleLookupAgent(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	a, ok := h.agents.FindByName(name)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "agent not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, a)
}

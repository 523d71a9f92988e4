package chat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/orgchat/backend/internal/service/chat"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	renders  *renderCache
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, renderCacheSize int, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		renders: newRenderCache(renderCacheSize),
		logger:  logging.OrNop(logger).With("component", "chat"),
		upgrader: websocket.Upgrader{
			// CORS middleware has already vetted browser origins
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由。调用方负责挂载鉴权中间件。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions", h.handleListSessions)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Get("/messages", h.handleListMessages)
		r.Post("/messages", h.handleSendMessage)
		r.Get("/stream", h.handleStream)
		r.Get("/ws", h.handleWebSocket)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())

	session, err := h.chatSvc.CreateSession(r.Context(), u.Username)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondSession(w, r, http.StatusCreated, session)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.ListSessions(r.Context(), u.Username))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	h.respondSession(w, r, http.StatusOK, session)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	messages, err := h.chatSvc.LoadTranscript(r.Context(), session.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.renders.views(messages))
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	User  MessageView `json:"user"`
	Reply MessageView `json:"reply"`
}

// handleSendMessage 发送消息并等待后端回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var payload sendRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	posted, err := h.chatSvc.Post(r.Context(), session.ID, payload.Message)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	reply, err := h.chatSvc.Reply(r.Context(), posted)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sendResponse{
		User:  h.renders.view(posted),
		Reply: h.renders.view(reply),
	})
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, status int, session chat.Session) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), session.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, status, SessionView{Session: session, Messages: h.renders.views(messages)})
}

// ownedSession resolves the {sessionID} URL parameter. Sessions of other users answer 404
// like missing ones.
func (h *Handler) ownedSession(w http.ResponseWriter, r *http.Request) (chat.Session, bool) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return chat.Session{}, false
	}
	u, _ := auth.UserFromContext(r.Context())
	if session.Owner != u.Username {
		h.respondServiceError(w, chatService.ErrSessionNotFound)
		return chat.Session{}, false
	}
	return session, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("[chat] request failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

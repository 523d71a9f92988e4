package chat

import (
	"net/http"

	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// SSE event names of one exchange, in emission order.
const (
	EventPending = "pending"
	EventMessage = "message"
	EventError   = "error"
	EventEnd     = "end"
)

// handleStream runs one exchange over Server-Sent Events: the stored user message as
// "pending", the bot reply as "message", then "end".
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	userMessage := r.URL.Query().Get("message")
	posted, err := h.chatSvc.Post(r.Context(), session.ID, userMessage)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	logger := h.logger.With("session_id", session.ID)
	logger.Debug("[sse] exchange started")

	if err := utils.SendSSEEvent(w, flusher, EventPending, h.renders.view(posted)); err != nil {
		logger.Warn("[sse] client went away", "error", err)
		return
	}

	reply, err := h.chatSvc.Reply(r.Context(), posted)
	if err != nil {
		_ = utils.SendSSEEvent(w, flusher, EventError, utils.ErrorBody{Error: err.Error()})
		return
	}
	if err := utils.SendSSEEvent(w, flusher, EventMessage, h.renders.view(reply)); err != nil {
		logger.Warn("[sse] client went away", "error", err)
		return
	}
	_ = utils.SendSSEEvent(w, flusher, EventEnd, map[string]string{"sessionId": session.ID})
}

// Package format exposes the reply pipeline as a side-effect free preview endpoint.
package format

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/orgchat/backend/internal/analysis/debug"
	"github.com/zhouzirui/orgchat/backend/internal/analysis/query"
	"github.com/zhouzirui/orgchat/backend/internal/format"
	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/internal/render"
	"github.com/zhouzirui/orgchat/backend/pkg/utils"
)

// Handler 格式化预览处理器
type Handler struct {
	classifier *debug.Classifier
}

// New 创建格式化处理器. A nil classifier uses the built-in signatures.
func New(classifier *debug.Classifier) *Handler {
	if classifier == nil {
		classifier = debug.Default()
	}
	return &Handler{classifier: classifier}
}

// RegisterRoutes 注册格式化路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/format", h.handleFormat)
}

// Request is a raw backend reply plus optional context.
type Request struct {
	Text      string `json:"text"`
	AgentUsed string `json:"agentUsed,omitempty"`
	// QueryType selects callout decoration: employee, department, policy or project.
	QueryType string `json:"queryType,omitempty"`
	// Query is the user question; it picks the fallback when Text is debug output.
	Query string `json:"query,omitempty"`
}

// Response mirrors what the send flow would store and draw.
type Response struct {
	Debug      bool               `json:"debug"`
	Signature  string             `json:"signature,omitempty"`
	Category   query.Category     `json:"category,omitempty"`
	Message    format.Message     `json:"message"`
	Summary    format.Summary     `json:"summary"`
	Paragraphs []render.Paragraph `json:"paragraphs"`
}

// Preview runs text through the classifier, formatter and renderer.
func (h *Handler) Preview(req Request) Response {
	var resp Response
	if sig, ok := h.classifier.Match(req.Text); ok {
		category := query.Infer(req.Query)
		resp.Debug = true
		resp.Signature = sig.Name
		resp.Category = category
		resp.Message = format.Message{
			Content:     query.Fallback(category),
			AgentUsed:   agent.SystemName,
			IsFormatted: true,
		}
	} else {
		resp.Message = format.Format(req.Text, req.AgentUsed)
		if qt := strings.TrimSpace(req.QueryType); qt != "" {
			resp.Message.Content = format.Decorate(resp.Message.Content, qt)
		}
	}

	resp.Summary = format.Summarize(resp.Message.Content)
	resp.Paragraphs = render.Render(resp.Message.Content)
	if resp.Paragraphs == nil {
		resp.Paragraphs = []render.Paragraph{}
	}
	return resp
}

func (h *Handler) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.Preview(req))
}

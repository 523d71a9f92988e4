package auth

import (
	"context"

	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

// Forwarder sends chat turns to the backend on behalf of the user in the request context.
type Forwarder struct {
	Client *backend.Client
}

// Chat implements the chat service's Responder.
func (f Forwarder) Chat(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error) {
	return f.Client.WithToken(TokenFromContext(ctx)).Chat(ctx, req)
}

package chat

import "time"

// Session owns one append-only transcript. BackendSessionID is the conversation token
// last handed out by the multi-agent backend; empty until the first reply.
type Session struct {
	ID               string    `json:"id"`
	Owner            string    `json:"owner"`
	BackendSessionID string    `json:"backendSessionId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

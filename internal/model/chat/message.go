package chat

import "time"

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one immutable transcript entry. AgentUsed is only set on bot messages.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	AgentUsed string    `json:"agentUsed,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

package format

import (
	"regexp"
	"strings"
)

var excessNewlinesRegex = regexp.MustCompile(`\n{3,}`)

// Message is the display-ready form of a backend reply.
type Message struct {
	Content     string `json:"content"`
	AgentUsed   string `json:"agentUsed,omitempty"`
	IsFormatted bool   `json:"isFormatted"`
}

// Format cleans a raw multi-agent reply. agentHint is the agent name reported out-of-band
// by the backend; when empty, a name recovered from a leading "Agent:" line is used.
// Malformed input degrades to best-effort output.
func Format(raw, agentHint string) Message {
	body, recovered := ExtractAgentTag(raw)

	content := Normalize(body)
	content = excessNewlinesRegex.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	agent := strings.TrimSpace(agentHint)
	if agent == "" {
		agent = recovered
	}

	return Message{
		Content:     content,
		AgentUsed:   agent,
		IsFormatted: true,
	}
}

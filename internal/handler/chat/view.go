package chat

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
	"github.com/zhouzirui/orgchat/backend/internal/render"
)

// MessageView is a transcript entry as the UI draws it. Paragraphs are only present on
// bot messages; user text is shown verbatim.
type MessageView struct {
	chat.Message
	Paragraphs []render.Paragraph `json:"paragraphs,omitempty"`
}

// SessionView is a session together with its transcript.
type SessionView struct {
	chat.Session
	Messages []MessageView `json:"messages"`
}

// renderCache memoises render output per message id. Messages never change after they are
// appended, so entries never go stale.
type renderCache struct {
	cache *lru.Cache[string, []render.Paragraph]
}

func newRenderCache(size int) *renderCache {
	if size <= 0 {
		size = 512
	}
	cache, err := lru.New[string, []render.Paragraph](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &renderCache{cache: cache}
}

func (c *renderCache) view(m chat.Message) MessageView {
	v := MessageView{Message: m}
	if m.Sender != chat.SenderBot {
		return v
	}
	if paragraphs, ok := c.cache.Get(m.ID); ok {
		v.Paragraphs = paragraphs
		return v
	}
	v.Paragraphs = render.Render(m.Content)
	c.cache.Add(m.ID, v.Paragraphs)
	return v
}

func (c *renderCache) views(messages []chat.Message) []MessageView {
	out := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, c.view(m))
	}
	return out
}

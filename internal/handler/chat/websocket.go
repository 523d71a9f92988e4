package chat

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// Inbound frame types.
const frameMessage = "message"

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingFrame struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Message   *MessageView `json:"message,omitempty"`
	Error     string       `json:"error,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// wsConn serialises writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// handleWebSocket 处理WebSocket连接. Every inbound message is answered on its own
// goroutine, so replies are written in completion order.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("[websocket] upgrade failed", "error", err)
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	logger := h.logger.With("session_id", session.ID)
	logger.Info("[websocket] new connection")

	ctx, cancel := context.WithCancel(r.Context())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
	}()

	_ = raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})
	go pingLoop(ctx, conn)

	for {
		var frame inboundFrame
		if err := raw.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("[websocket] read error", "error", err)
			}
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if frame.Type != frameMessage {
			h.sendFrame(conn, session.ID, EventError, nil, "unsupported frame type: "+frame.Type)
			continue
		}

		posted, err := h.chatSvc.Post(ctx, session.ID, frame.Text)
		if err != nil {
			h.sendFrame(conn, session.ID, EventError, nil, err.Error())
			continue
		}
		h.sendFrame(conn, session.ID, EventPending, &posted, "")

		inflight.Add(1)
		go func(posted chat.Message) {
			defer inflight.Done()
			reply, err := h.chatSvc.Reply(ctx, posted)
			if err != nil {
				h.sendFrame(conn, session.ID, EventError, nil, err.Error())
				return
			}
			h.sendFrame(conn, session.ID, EventMessage, &reply, "")
		}(posted)
	}
}

func (h *Handler) sendFrame(conn *wsConn, sessionID, frameType string, msg *chat.Message, errText string) {
	frame := outgoingFrame{
		Type:      frameType,
		SessionID: sessionID,
		Error:     errText,
		Timestamp: time.Now().Unix(),
	}
	if msg != nil {
		view := h.renders.view(*msg)
		frame.Message = &view
	}
	if err := conn.writeJSON(frame); err != nil {
		h.logger.Debug("[websocket] write failed", "error", err, "type", frameType)
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

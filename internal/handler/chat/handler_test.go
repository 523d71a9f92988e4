package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
	"github.com/zhouzirui/orgchat/backend/internal/model/user"
	"github.com/zhouzirui/orgchat/backend/internal/render"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
	chatservice "github.com/zhouzirui/orgchat/backend/internal/service/chat"
)

type responderFunc func(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error)

func (f responderFunc) Chat(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error) {
	return f(ctx, req)
}

func echoResponder() responderFunc {
	return func(_ context.Context, req backend.ChatRequest) (backend.ChatResponse, error) {
		return backend.ChatResponse{
			Response:  "Agent: HR Agent\n### Re: " + req.Message + "\n* done",
			SessionID: "backend-1",
		}, nil
	}
}

// asUser stands in for auth.Resolver.Authenticate: the X-Test-User header names the caller.
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := r.Header.Get("X-Test-User"); name != "" {
			r = r.WithContext(auth.WithUser(r.Context(), "tok-"+name, user.User{Username: name, Role: user.RoleEmployee, IsActive: true}))
		}
		next.ServeHTTP(w, r)
	})
}

func setupRouter(responder chatservice.Responder) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(responder)
	handler := New(chatSvc, 16, nil)

	r := chi.NewRouter()
	r.Use(asUser)
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(r http.Handler, method, path, who string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if who != "" {
		req.Header.Set("X-Test-User", who)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, who string) SessionView {
	t.Helper()
	resp := do(r, http.MethodPost, "/sessions", who, "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var view SessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return view
}

func TestCreateSessionIncludesRenderedWelcome(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	view := createSession(t, r, "alice")

	if view.Owner != "alice" || view.ID == "" {
		t.Fatalf("unexpected session: %+v", view.Session)
	}
	if len(view.Messages) != 1 {
		t.Fatalf("expected welcome message, got %d", len(view.Messages))
	}
	welcome := view.Messages[0]
	if welcome.AgentUsed != agent.WelcomeName {
		t.Fatalf("unexpected agent %q", welcome.AgentUsed)
	}
	if len(welcome.Paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(welcome.Paragraphs))
	}
	if welcome.Paragraphs[1].Blocks[0].Kind != render.KindBullet {
		t.Fatalf("expected bullet list in welcome, got %s", welcome.Paragraphs[1].Blocks[0].Kind)
	}
}

func TestSendMessage(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	view := createSession(t, r, "alice")

	resp := do(r, http.MethodPost, "/sessions/"+view.ID+"/messages", "alice", `{"message":"leave days"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out sendResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.User.Sender != chat.SenderUser || out.User.Paragraphs != nil {
		t.Fatalf("user message must not be rendered: %+v", out.User)
	}
	if out.Reply.Content != "**Re: leave days**\n• done" || out.Reply.AgentUsed != "HR Agent" {
		t.Fatalf("unexpected reply: %+v", out.Reply.Message)
	}
	if len(out.Reply.Paragraphs) != 1 || len(out.Reply.Paragraphs[0].Blocks) != 2 {
		t.Fatalf("unexpected reply paragraphs: %+v", out.Reply.Paragraphs)
	}

	resp = do(r, http.MethodGet, "/sessions/"+view.ID+"/messages", "alice", "")
	var transcript []MessageView
	if err := json.Unmarshal(resp.Body.Bytes(), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(transcript) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(transcript))
	}
}

func TestSendMessageErrors(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	view := createSession(t, r, "alice")

	cases := []struct {
		name   string
		path   string
		who    string
		body   string
		status int
	}{
		{"blank message", "/sessions/" + view.ID + "/messages", "alice", `{"message":"   "}`, http.StatusBadRequest},
		{"bad json", "/sessions/" + view.ID + "/messages", "alice", `{"message":`, http.StatusBadRequest},
		{"unknown field", "/sessions/" + view.ID + "/messages", "alice", `{"text":"hi"}`, http.StatusBadRequest},
		{"missing session", "/sessions/nope/messages", "alice", `{"message":"hi"}`, http.StatusNotFound},
		{"someone else's session", "/sessions/" + view.ID + "/messages", "mallory", `{"message":"hi"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(r, http.MethodPost, tc.path, tc.who, tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestListSessionsScopedToCaller(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	createSession(t, r, "alice")
	createSession(t, r, "bob")

	resp := do(r, http.MethodGet, "/sessions", "alice", "")
	var sessions []chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Owner != "alice" {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
}

func TestRenderCacheMemoisesBotMessages(t *testing.T) {
	c := newRenderCache(4)
	bot := chat.Message{ID: "m1", Sender: chat.SenderBot, Content: "• a"}

	first := c.view(bot)
	bot.Content = "changed"
	second := c.view(bot)
	if second.Paragraphs[0].Blocks[0].PlainText() != first.Paragraphs[0].Blocks[0].PlainText() {
		t.Fatal("expected cached paragraphs for the same message id")
	}

	userMsg := c.view(chat.Message{ID: "m2", Sender: chat.SenderUser, Content: "• a"})
	if userMsg.Paragraphs != nil {
		t.Fatal("user messages are not rendered")
	}
}

func readSSE(t *testing.T, body *bytes.Buffer) []string {
	t.Helper()
	var events []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	return events
}

func TestStreamEmitsPendingMessageEnd(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	view := createSession(t, r, "alice")

	resp := do(r, http.MethodGet, "/sessions/"+view.ID+"/stream?message=hello", "alice", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := resp.Body.String()
	events := readSSE(t, bytes.NewBufferString(body))
	if strings.Join(events, ",") != "pending,message,end" {
		t.Fatalf("unexpected events %v", events)
	}
	if !strings.Contains(body, `"content":"**Re: hello**\n• done"`) {
		t.Fatalf("reply missing from stream: %s", body)
	}
}

func TestStreamRejectsBlankMessage(t *testing.T) {
	r, _ := setupRouter(echoResponder())
	view := createSession(t, r, "alice")

	resp := do(r, http.MethodGet, "/sessions/"+view.ID+"/stream", "alice", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func dialWS(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Test-User": {"alice"}})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("unexpected handshake status %d", resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) outgoingFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame outgoingFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestWebSocketRepliesInCompletionOrder(t *testing.T) {
	release := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	responder := responderFunc(func(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error) {
		select {
		case <-release[req.Message]:
		case <-ctx.Done():
			return backend.ChatResponse{}, ctx.Err()
		}
		return backend.ChatResponse{Response: "answer " + req.Message, AgentUsed: "HR Agent"}, nil
	})
	r, chatSvc := setupRouter(responder)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	session, err := chatSvc.CreateSession(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	conn := dialWS(t, srv, session.ID)

	for _, text := range []string{"slow", "fast"} {
		if err := conn.WriteJSON(inboundFrame{Type: frameMessage, Text: text}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if frame := readFrame(t, conn); frame.Type != EventPending || frame.Message.Content != text {
			t.Fatalf("expected pending frame for %q, got %+v", text, frame)
		}
	}

	close(release["fast"])
	first := readFrame(t, conn)
	close(release["slow"])
	second := readFrame(t, conn)

	if first.Type != EventMessage || first.Message.Content != "answer fast" {
		t.Fatalf("expected fast reply first, got %+v", first)
	}
	if second.Message.Content != "answer slow" || second.Message.AgentUsed != "HR Agent" {
		t.Fatalf("expected slow reply second, got %+v", second)
	}
	if len(first.Message.Paragraphs) == 0 {
		t.Fatal("bot frames carry rendered paragraphs")
	}
}

func TestWebSocketRejectsBadFrames(t *testing.T) {
	r, chatSvc := setupRouter(echoResponder())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	session, _ := chatSvc.CreateSession(context.Background(), "alice")
	conn := dialWS(t, srv, session.ID)

	_ = conn.WriteJSON(inboundFrame{Type: "typing"})
	if frame := readFrame(t, conn); frame.Type != EventError {
		t.Fatalf("expected error frame, got %+v", frame)
	}

	_ = conn.WriteJSON(inboundFrame{Type: frameMessage, Text: " "})
	if frame := readFrame(t, conn); frame.Type != EventError || frame.Error != chatservice.ErrEmptyMessage.Error() {
		t.Fatalf("expected empty message error, got %+v", frame)
	}
}

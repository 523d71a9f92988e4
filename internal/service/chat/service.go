package chat

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/orgchat/backend/internal/analysis/debug"
	"github.com/zhouzirui/orgchat/backend/internal/analysis/query"
	"github.com/zhouzirui/orgchat/backend/internal/format"
	"github.com/zhouzirui/orgchat/backend/internal/logging"
	"github.com/zhouzirui/orgchat/backend/internal/metrics"
	"github.com/zhouzirui/orgchat/backend/internal/model/agent"
	"github.com/zhouzirui/orgchat/backend/internal/model/chat"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
)

// WelcomeText seeds every new transcript.
const WelcomeText = "Hello! I'm your **Multi-Agent HR Assistant**. I can help you with:\n\n" +
	"• **Employee & Project Information** - Find details about team members, project assignments, and departmental data\n" +
	"• **Company Policies** - Access information about HR policies, procedures, and guidelines\n" +
	"• **Organizational Structure** - Learn about company structure, roles, and organizational information\n\n" +
	"What would you like to know today?"

// ApologyText replaces the reply when the backend call fails.
const ApologyText = "I'm sorry, I'm having trouble processing your request right now. " +
	"Please try again in a moment. If the issue persists, please contact the system administrator."

// Responder answers one chat turn. *backend.Client satisfies it.
type Responder interface {
	Chat(ctx context.Context, req backend.ChatRequest) (backend.ChatResponse, error)
}

// Option customises a Service.
type Option func(*Service)

// WithClassifier replaces the default debug-output classifier.
func WithClassifier(c *debug.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Service encapsulates conversation state management and the send flow.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message

	responder  Responder
	classifier *debug.Classifier
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService bootstraps the in-memory chat service.
func NewService(responder Responder, opts ...Option) *Service {
	s := &Service{
		sessions:   make(map[string]chat.Session),
		messages:   make(map[string][]chat.Message),
		responder:  responder,
		classifier: debug.Default(),
		logger:     logging.Nop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession provisions a session for owner and seeds it with the welcome message.
func (s *Service) CreateSession(_ context.Context, owner string) (chat.Session, error) {
	now := s.now().UTC()
	session := chat.Session{
		ID:        s.newID(),
		Owner:     owner,
		CreatedAt: now,
	}
	welcome := chat.Message{
		ID:        s.newID(),
		SessionID: session.ID,
		Sender:    chat.SenderBot,
		Content:   WelcomeText,
		AgentUsed: agent.WelcomeName,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = append(make([]chat.Message, 0, 16), welcome)
	s.mu.Unlock()

	s.logger.Debug("[chat] session created", "session_id", session.ID, "owner", owner)
	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// ListSessions returns the sessions created by owner, oldest first.
func (s *Service) ListSessions(_ context.Context, owner string) []chat.Session {
	s.mu.RLock()
	out := make([]chat.Session, 0)
	for _, session := range s.sessions {
		if session.Owner == owner {
			out = append(out, session)
		}
	}
	s.mu.RUnlock()

	sortSessions(out)
	return out
}

// LoadTranscript returns a copy of the stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Send appends the user's text and then the bot reply, returning the reply.
func (s *Service) Send(ctx context.Context, sessionID, text string) (chat.Message, error) {
	posted, err := s.Post(ctx, sessionID, text)
	if err != nil {
		return chat.Message{}, err
	}
	return s.Reply(ctx, posted)
}

// Post appends the user's message without contacting the backend. Blank text is rejected.
func (s *Service) Post(_ context.Context, sessionID, text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	msg := chat.Message{
		ID:        s.newID(),
		SessionID: sessionID,
		Sender:    chat.SenderUser,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.append(msg, ""); err != nil {
		return chat.Message{}, err
	}
	return msg, nil
}

// Reply asks the backend about a posted user message and appends the bot answer. Backend
// failures are answered with ApologyText and do not surface as errors; only an unknown
// session does.
func (s *Service) Reply(ctx context.Context, posted chat.Message) (chat.Message, error) {
	session, err := s.GetSession(ctx, posted.SessionID)
	if err != nil {
		return chat.Message{}, err
	}
	logger := s.logger.With("session_id", session.ID)

	// the reply is stored even when the caller has gone away
	start := s.now()
	resp, err := s.responder.Chat(context.WithoutCancel(ctx), backend.ChatRequest{
		Message:   posted.Content,
		SessionID: session.BackendSessionID,
	})
	s.metrics.ObserveBackend(s.now().Sub(start), err)

	reply := chat.Message{
		ID:        s.newID(),
		SessionID: session.ID,
		Sender:    chat.SenderBot,
	}
	var backendSessionID string

	switch {
	case err != nil:
		logger.Warn("[chat] backend call failed", "error", err, "status", backend.StatusCode(err))
		reply.Content = ApologyText
	default:
		backendSessionID = resp.SessionID
		if sig, flagged := s.classifier.Match(resp.Response); flagged {
			category := query.Infer(posted.Content)
			logger.Info("[chat] debug output intercepted", "signature", sig.Name, "category", category)
			s.metrics.IncDebugIntercept(string(category), sig.Name)
			reply.Content = query.Fallback(category)
			reply.AgentUsed = agent.SystemName
		} else {
			formatted := format.Format(resp.Response, resp.AgentUsed)
			reply.Content = formatted.Content
			reply.AgentUsed = formatted.AgentUsed
			if reply.AgentUsed == "" {
				reply.AgentUsed = resp.AgentUsed
			}
		}
	}

	reply.CreatedAt = s.now().UTC()
	if err := s.append(reply, backendSessionID); err != nil {
		return chat.Message{}, err
	}
	return reply, nil
}

// append stores msg and, when non-empty, the backend session id the reply carried.
func (s *Service) append(msg chat.Message, backendSessionID string) error {
	s.mu.Lock()
	session, ok := s.sessions[msg.SessionID]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)
	if backendSessionID != "" && backendSessionID != session.BackendSessionID {
		session.BackendSessionID = backendSessionID
		s.sessions[session.ID] = session
	}
	s.mu.Unlock()

	s.metrics.IncMessage(string(msg.Sender))
	return nil
}

func sortSessions(sessions []chat.Session) {
	slices.SortFunc(sessions, func(a, b chat.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

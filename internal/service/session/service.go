package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	"github.com/liangzhu/ds-tutor/backend/internal/model/chat"
	"github.com/liangzhu/ds-tutor/backend/internal/service/history"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidRole      = errors.New("role must be User or Admin")
	ErrSessionNotFound  = errors.New("session not found")
	ErrMessageRequired  = errors.New("message is required")
	ErrQuestionNotFound = errors.New("quick question not found")
)

// Asker is the single call-and-return-text operation against the model.
// Failures arrive as displayable strings, never as errors.
type Asker interface {
	Ask(ctx context.Context, query string) string
}

// Service glues login state, the transcript store and the model gateway
// together. The transcript is loaded once at construction and held in
// memory; every mutation rewrites the backing store in full. One transcript
// is shared by all sessions, matching the single-user deployment the file
// store assumes.
type Service struct {
	store   history.Store
	gateway Asker
	catalog catalog.Store

	mu         sync.RWMutex
	sessions   map[string]chat.Session
	code       map[string]string
	transcript []chat.Turn

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewService loads the persisted transcript and prepares session state.
func NewService(store history.Store, gateway Asker, content catalog.Store) *Service {
	return &Service{
		store:      store,
		gateway:    gateway,
		catalog:    content,
		sessions:   make(map[string]chat.Session),
		code:       make(map[string]string),
		transcript: store.Load(),
		subs:       make(map[int]chan Event),
	}
}

// Login opens a session for a username. There is no credential check; the
// gate only ensures the rest of the API has an identity to stamp turns with.
func (s *Service) Login(username, role string) (chat.Session, error) {
	if username == "" {
		return chat.Session{}, ErrUsernameRequired
	}

	switch role {
	case "":
		role = chat.RoleUser
	case chat.RoleUser, chat.RoleAdmin:
	default:
		return chat.Session{}, ErrInvalidRole
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// SetDarkMode persists the display preference on the session.
func (s *Service) SetDarkMode(sessionID string, on bool) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	session.DarkMode = on
	s.sessions[sessionID] = session
	return session, nil
}

// Transcript returns a copy of the current conversation.
func (s *Service) Transcript() []chat.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chat.Turn, len(s.transcript))
	copy(copied, s.transcript)
	return copied
}

// SubmitMessage appends the user's turn, asks the model, appends the
// assistant's turn, and persists after each append. The assistant text is
// whatever the gateway returned, including its degraded error strings.
func (s *Service) SubmitMessage(ctx context.Context, sessionID, message string) (chat.Turn, chat.Turn, error) {
	if message == "" {
		return chat.Turn{}, chat.Turn{}, ErrMessageRequired
	}

	session, err := s.GetSession(sessionID)
	if err != nil {
		return chat.Turn{}, chat.Turn{}, err
	}

	userTurn := chat.UserTurn(session.Username, session.Role, message)
	if err := s.appendTurn(userTurn); err != nil {
		return chat.Turn{}, chat.Turn{}, err
	}

	// Blocks until the model answers; there is no timeout or cancellation
	// beyond what the request context carries.
	reply := s.gateway.Ask(ctx, message)

	assistantTurn := chat.AssistantTurn(reply)
	if err := s.appendTurn(assistantTurn); err != nil {
		return userTurn, chat.Turn{}, err
	}

	return userTurn, assistantTurn, nil
}

// AskQuickQuestion runs the canned question at index through the normal
// message path.
func (s *Service) AskQuickQuestion(ctx context.Context, sessionID string, index int) (chat.Turn, chat.Turn, error) {
	question, ok := s.catalog.QuickQuestion(index)
	if !ok {
		return chat.Turn{}, chat.Turn{}, ErrQuestionNotFound
	}
	return s.SubmitMessage(ctx, sessionID, question)
}

// ClearHistory removes all turns atomically and persists the empty
// transcript.
func (s *Service) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = []chat.Turn{}
	if err := s.store.Save(s.transcript); err != nil {
		return err
	}

	s.broadcast(Event{Kind: EventCleared})
	return nil
}

// ExportTranscript flattens the conversation for download.
func (s *Service) ExportTranscript() string {
	return history.Export(s.Transcript())
}

// SetCode stores the session's editor buffer.
func (s *Service) SetCode(sessionID, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	s.code[sessionID] = source
	return nil
}

// Code returns the session's editor buffer.
func (s *Service) Code(sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return "", ErrSessionNotFound
	}
	return s.code[sessionID], nil
}

// ClearCode empties the session's editor buffer.
func (s *Service) ClearCode(sessionID string) error {
	return s.SetCode(sessionID, "")
}

func (s *Service) appendTurn(turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.transcript, turn)
	if err := s.store.Save(next); err != nil {
		return err
	}
	s.transcript = next

	s.broadcast(Event{Kind: EventTurnAppended, Turn: &turn})
	return nil
}

package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/innstack/concierge/internal/logger"
)

var ErrSessionNotFound = errors.New("chat session not found")

// Session is one guest conversation. The transcript carries the full
// exchange, including tool calls, so the model keeps its context between
// requests. mu serializes exchanges: Respond holds it for a whole tool
// loop, and History waits for the loop to finish. LastActive is guarded by
// the store's lock, not mu.
type Session struct {
	ID         string
	CreatedAt  time.Time
	LastActive time.Time

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

// History returns a copy of the transcript.
func (s *Session) History() []openai.ChatCompletionMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]openai.ChatCompletionMessage, len(s.messages))
	copy(out, s.messages)

	return out
}

// Store keeps sessions in memory and drops the ones idle longer than the
// timeout. A background janitor sweeps every cleanupEvery.
type Store struct {
	mu       sync.RWMutex
	l        *logger.Logger
	sessions map[string]*Session
	timeout  time.Duration
	done     chan struct{}
	now      func() time.Time
}

const cleanupEvery = 5 * time.Minute

func NewStore(l *logger.Logger, timeout time.Duration) *Store {
	s := &Store{
		l:        l,
		sessions: make(map[string]*Session),
		timeout:  timeout,
		done:     make(chan struct{}),
		now:      time.Now,
	}

	go s.janitor()

	return s
}

func (s *Store) Create(systemPrompt string) *Session {
	now := s.now()

	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		LastActive: now,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session and refreshes its idle timer. Expired sessions
// are treated as gone even before the janitor removes them.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.now().Sub(sess.LastActive) > s.timeout {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}

	sess.LastActive = s.now()

	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}

	delete(s.sessions, id)

	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func (s *Store) Close() {
	close(s.done)
}

func (s *Store) janitor() {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.done:
			return
		}
	}
}

func (s *Store) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.timeout)

	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			s.l.LogInfo("chat session expired: %v", id)
		}
	}
}

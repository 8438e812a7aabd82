package ai

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Session is a conversation handle with contextual memory. Successful sends append
// the prompt and the reply to its history; failed sends leave it untouched.
type Session struct {
	ID string

	mu       sync.Mutex
	provider Provider
	history  []Message
	timeout  time.Duration
}

// StartSession seeds a new session with history (oldest first). A zero timeout
// disables the per-call deadline.
func StartSession(id string, provider Provider, history []Message, timeout time.Duration) *Session {
	h := make([]Message, len(history))
	copy(h, history)
	return &Session{ID: id, provider: provider, history: h, timeout: timeout}
}

// Send submits prompt with the accumulated history and blocks until the provider replies.
// Sends on the same session are serialized so the history keeps turn order.
func (s *Session) Send(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msgs := make([]Message, 0, len(s.history)+1)
	msgs = append(msgs, s.history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: prompt})

	reply, err := s.provider.Chat(ctx, msgs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.Join(ErrTimeout, err)
		}
		return "", err
	}

	s.history = append(s.history,
		Message{Role: RoleUser, Content: prompt},
		Message{Role: RoleModel, Content: reply},
	)
	return reply, nil
}

// History returns a copy of the turns the session currently carries.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

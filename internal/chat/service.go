package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/suPer8Hu/health-chat/internal/ai"
	"github.com/suPer8Hu/health-chat/internal/document"
	"github.com/suPer8Hu/health-chat/internal/observability"
	"golang.org/x/sync/singleflight"
)

// TurnPublisher announces committed turns to downstream consumers.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, turn ChatTurn) error
}

type Options struct {
	HistoryLimit int
	Cache        HistoryCache
	Events       TurnPublisher
	Metrics      *observability.Metrics
}

type Service struct {
	repo         *Repo
	sessions     *SessionStore
	history      *HistoryLoader
	historyLimit int
	cache        HistoryCache
	events       TurnPublisher
	metrics      *observability.Metrics

	bootstrap singleflight.Group
}

func NewService(repo *Repo, sessions *SessionStore, opts Options) *Service {
	limit := opts.HistoryLimit
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		log.Printf("[Chat] history limit %d capped to %d", limit, MaxHistoryLimit)
		limit = MaxHistoryLimit
	}
	return &Service{
		repo:         repo,
		sessions:     sessions,
		history:      NewHistoryLoader(repo, opts.Cache),
		historyLimit: limit,
		cache:        opts.Cache,
		events:       opts.Events,
		metrics:      opts.Metrics,
	}
}

// Upload is a document attached to a chat message.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Request struct {
	UserID     string
	Message    string
	Conditions []string
	File       *Upload
}

// Handle runs one chat exchange: it resolves the user's session, folds the health
// context into the prompt, asks the model and persists the turn. The returned reply
// is trimmed. Errors are *document.UnsupportedFormatError, *document.ExtractionError,
// *InvalidAIResponseError, *TimeoutError or an unexpected wrapped error.
func (s *Service) Handle(ctx context.Context, req Request) (reply string, err error) {
	defer func() { s.metrics.ChatRequest(outcome(err)) }()

	// 1) session (seeded from stored history on first contact)
	sess, err := s.session(ctx, req.UserID)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}

	// 2) report text, if a document was attached
	var report *string
	if req.File != nil {
		format, err := document.FormatFromFilename(req.File.Filename)
		if err != nil {
			return "", err
		}
		text, err := document.Extract(format, req.File.Body)
		if err != nil {
			return "", err
		}
		report = &text
	}

	// 3) prompt
	prompt := ComposePrompt(req.Message, req.Conditions, report)
	log.Printf("[Chat] sending user_id=%s session_id=%s prompt_len=%d report=%t",
		req.UserID, sess.ID, len(prompt), report != nil)

	// 4) model call
	start := time.Now()
	raw, err := sess.Send(ctx, prompt)
	s.metrics.ObserveAICall(time.Since(start), outcome(err))
	if err != nil {
		log.Printf("[Chat] ai call failed user_id=%s session_id=%s cost=%s err=%v",
			req.UserID, sess.ID, time.Since(start), err)
		switch {
		case errors.Is(err, ai.ErrNoText):
			return "", &InvalidAIResponseError{Err: err}
		case errors.Is(err, ai.ErrTimeout):
			return "", &TimeoutError{Err: err}
		}
		return "", fmt.Errorf("ai call: %w", err)
	}
	reply = strings.TrimSpace(raw)

	// 5) persist; conditions are stored as tags even when a report drove the prompt
	turn := &ChatTurn{
		UserID:         req.UserID,
		Message:        req.Message,
		Response:       reply,
		UserConditions: JoinConditions(req.Conditions),
	}
	if err := s.repo.InsertTurn(ctx, turn); err != nil {
		log.Printf("[Chat] persist failed user_id=%s session_id=%s err=%v", req.UserID, sess.ID, err)
		return "", fmt.Errorf("persist turn: %w", err)
	}
	s.afterPersist(ctx, *turn)

	return reply, nil
}

// session returns the user's live session, creating it from the most recent stored
// turns when absent. Concurrent first requests for one user share a single load.
func (s *Service) session(ctx context.Context, userID string) (*ai.Session, error) {
	if sess, ok := s.sessions.Get(userID); ok {
		return sess, nil
	}

	v, err, _ := s.bootstrap.Do(userID, func() (any, error) {
		if sess, ok := s.sessions.Get(userID); ok {
			return sess, nil
		}
		seed, err := s.history.LoadRecent(ctx, userID, s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		sess, created := s.sessions.GetOrCreate(userID, seed)
		if created {
			log.Printf("[Chat] new session user_id=%s session_id=%s seeded=%d", userID, sess.ID, len(seed))
		}
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ai.Session), nil
}

func (s *Service) afterPersist(ctx context.Context, turn ChatTurn) {
	if s.cache != nil {
		if err := s.cache.AppendTurn(ctx, turn, s.historyLimit); err != nil {
			log.Printf("[Chat] cache append failed user_id=%s turn_id=%d err=%v", turn.UserID, turn.ID, err)
		}
	}
	if s.events != nil {
		if err := s.events.PublishTurn(ctx, turn); err != nil {
			log.Printf("[Chat] publish failed user_id=%s turn_id=%d err=%v", turn.UserID, turn.ID, err)
		}
	}
}

// ListHistory returns every stored message and response of the user, oldest first.
func (s *Service) ListHistory(ctx context.Context, userID string) ([]HistoryEntry, error) {
	turns, err := s.repo.ListTurnsAsc(ctx, userID)
	if err != nil {
		return nil, err
	}
	return TurnsToEntries(turns), nil
}

func outcome(err error) string {
	var (
		unsupported *document.UnsupportedFormatError
		extraction  *document.ExtractionError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &unsupported):
		return "unsupported_format"
	case errors.As(err, &extraction):
		return "extraction_error"
	case errors.Is(err, ai.ErrNoText):
		return "invalid_ai_response"
	case errors.Is(err, ai.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

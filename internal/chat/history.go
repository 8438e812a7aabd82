package chat

import (
	"context"
	"log"

	"github.com/suPer8Hu/health-chat/internal/ai"
)

const (
	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 100
)

// HistoryCache keeps each user's most recent turns close to the service.
// Turns are always exchanged oldest first.
type HistoryCache interface {
	// RecentTurns reports ok=false on a miss.
	RecentTurns(ctx context.Context, userID string, limit int) (turns []ChatTurn, ok bool, err error)
	StoreTurns(ctx context.Context, userID string, turns []ChatTurn, limit int) error
	AppendTurn(ctx context.Context, turn ChatTurn, limit int) error
}

// HistoryLoader rebuilds the tail of a user's conversation to seed a new session.
type HistoryLoader struct {
	repo  *Repo
	cache HistoryCache
}

func NewHistoryLoader(repo *Repo, cache HistoryCache) *HistoryLoader {
	return &HistoryLoader{repo: repo, cache: cache}
}

// LoadRecent returns up to limit turns as user/model message pairs, oldest first.
func (l *HistoryLoader) LoadRecent(ctx context.Context, userID string, limit int) ([]ai.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	turns, err := l.recentTurns(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return TurnsToHistory(turns), nil
}

func (l *HistoryLoader) recentTurns(ctx context.Context, userID string, limit int) ([]ChatTurn, error) {
	if l.cache != nil {
		turns, ok, err := l.cache.RecentTurns(ctx, userID, limit)
		switch {
		case err != nil:
			log.Printf("[HistoryLoader] cache read failed user_id=%s err=%v", userID, err)
		case ok:
			return turns, nil
		}
	}

	desc, err := l.repo.ListRecentTurnsDesc(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	// reverse to ASC (oldest -> newest)
	turns := make([]ChatTurn, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		turns = append(turns, desc[i])
	}

	if l.cache != nil && len(turns) > 0 {
		if err := l.cache.StoreTurns(ctx, userID, turns, limit); err != nil {
			log.Printf("[HistoryLoader] cache backfill failed user_id=%s err=%v", userID, err)
		}
	}
	return turns, nil
}

// TurnsToHistory expands each turn into a user entry followed by a model entry.
func TurnsToHistory(turns []ChatTurn) []ai.Message {
	out := make([]ai.Message, 0, 2*len(turns))
	for _, t := range turns {
		out = append(out,
			ai.Message{Role: ai.RoleUser, Content: t.Message},
			ai.Message{Role: ai.RoleModel, Content: t.Response},
		)
	}
	return out
}

// TurnsToEntries flattens turns into the history endpoint's user/bot entries.
func TurnsToEntries(turns []ChatTurn) []HistoryEntry {
	out := make([]HistoryEntry, 0, 2*len(turns))
	for _, t := range turns {
		out = append(out,
			HistoryEntry{Sender: SenderUser, Text: t.Message, Timestamp: t.ID},
			HistoryEntry{Sender: SenderBot, Text: t.Response, Timestamp: t.ID},
		)
	}
	return out
}

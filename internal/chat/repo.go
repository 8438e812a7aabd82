package chat

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) InsertTurn(ctx context.Context, t *ChatTurn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ListRecentTurnsDesc returns the user's most recent turns in DESC id order (newest -> oldest).
func (r *Repo) ListRecentTurnsDesc(ctx context.Context, userID string, limit int) ([]ChatTurn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var turns []ChatTurn
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// ListTurnsAsc returns every turn of the user in ASC id order (oldest -> newest).
func (r *Repo) ListTurnsAsc(ctx context.Context, userID string) ([]ChatTurn, error) {
	var turns []ChatTurn
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

type ChatInteractionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ChatInteraction) ([]*types.ChatInteraction, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.ChatInteraction, error)
}

type chatInteractionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatInteractionRepo(db *gorm.DB, baseLog *logger.Logger) ChatInteractionRepo {
	repoLog := baseLog.With("repo", "ChatInteractionRepo")
	return &chatInteractionRepo{db: db, log: repoLog}
}

func (r *chatInteractionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ChatInteraction) ([]*types.ChatInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ChatInteraction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chatInteractionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.ChatInteraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChatInteraction
	if userID == "" {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

type LearningHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.LearningHistory) ([]*types.LearningHistory, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.LearningHistory, error)
}

type learningHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningHistoryRepo(db *gorm.DB, baseLog *logger.Logger) LearningHistoryRepo {
	repoLog := baseLog.With("repo", "LearningHistoryRepo")
	return &learningHistoryRepo{db: db, log: repoLog}
}

func (r *learningHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.LearningHistory) ([]*types.LearningHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.LearningHistory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *learningHistoryRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.LearningHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LearningHistory
	if userID == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

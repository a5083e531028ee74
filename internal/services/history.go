package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

type AddHistoryInput struct {
	UserID     string   `json:"userId"`
	LessonType string   `json:"lessonType"`
	LessonID   string   `json:"lessonId"`
	Score      *float64 `json:"score"`
	Duration   *float64 `json:"duration"`
}

type LearningHistoryService interface {
	Add(ctx context.Context, input AddHistoryInput) error
	Get(ctx context.Context, userID string) ([]*types.LearningHistory, error)
	BestScores(ctx context.Context, userID string) (map[string]float64, error)
}

type learningHistoryService struct {
	db          *gorm.DB
	log         *logger.Logger
	historyRepo repos.LearningHistoryRepo
}

func NewLearningHistoryService(db *gorm.DB, log *logger.Logger, historyRepo repos.LearningHistoryRepo) LearningHistoryService {
	serviceLog := log.With("service", "LearningHistoryService")
	return &learningHistoryService{db: db, log: serviceLog, historyRepo: historyRepo}
}

func (hs *learningHistoryService) Add(ctx context.Context, input AddHistoryInput) error {
	if strings.TrimSpace(input.UserID) == "" ||
		strings.TrimSpace(input.LessonType) == "" ||
		strings.TrimSpace(input.LessonID) == "" ||
		input.Score == nil ||
		input.Duration == nil {
		return apierr.Validation("Missing required fields")
	}

	row := &types.LearningHistory{
		ID:              uuid.New(),
		UserID:          strings.TrimSpace(input.UserID),
		LessonID:        strings.TrimSpace(input.LessonID),
		LessonType:      strings.TrimSpace(input.LessonType),
		Score:           *input.Score,
		DurationSeconds: *input.Duration,
		Timestamp:       time.Now().UTC(),
	}
	if _, err := hs.historyRepo.Create(ctx, nil, []*types.LearningHistory{row}); err != nil {
		hs.log.Error("Failed to append learning history", "user_id", row.UserID, "error", err)
		return apierr.Store(fmt.Errorf("append history: %w", err))
	}
	return nil
}

func (hs *learningHistoryService) Get(ctx context.Context, userID string) ([]*types.LearningHistory, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apierr.Validation("Missing userId")
	}

	rows, err := hs.historyRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		hs.log.Error("Failed to fetch learning history", "user_id", userID, "error", err)
		return nil, apierr.Store(fmt.Errorf("fetch history: %w", err))
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("No learning history found")
	}
	return rows, nil
}

// BestScores returns the best-score index for a learner. No history is not
// an error: new learners simply get an empty index.
func (hs *learningHistoryService) BestScores(ctx context.Context, userID string) (map[string]float64, error) {
	rows, err := hs.historyRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		hs.log.Error("Failed to fetch learning history for scoring", "user_id", userID, "error", err)
		return nil, apierr.Store(fmt.Errorf("fetch history: %w", err))
	}
	return BuildBestScoreIndex(rows), nil
}

// BuildBestScoreIndex reduces history rows to max score per lesson. The
// reduction is commutative and associative, so row order never matters.
func BuildBestScoreIndex(rows []*types.LearningHistory) map[string]float64 {
	index := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row == nil || row.LessonID == "" {
			continue
		}
		if row.Score > index[row.LessonID] {
			index[row.LessonID] = row.Score
		}
	}
	return index
}

package types

import (
	"time"

	"github.com/google/uuid"
)

// LearningHistory is append-only: one row per attempt, repeat attempts on
// the same lesson produce new rows.
type LearningHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"historyId"`
	UserID          string    `gorm:"column:user_id;not null;index" json:"userId"`
	LessonID        string    `gorm:"column:lesson_id;not null" json:"lessonId"`
	LessonType      string    `gorm:"column:lesson_type;not null" json:"lessonType"`
	Score           float64   `gorm:"column:score;not null" json:"score"`
	DurationSeconds float64   `gorm:"column:duration_seconds;not null" json:"duration"`
	Timestamp       time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	CreatedAt       time.Time `gorm:"not null" json:"-"`
}

func (LearningHistory) TableName() string { return "learning_history" }

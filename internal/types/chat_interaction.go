package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatInteraction struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"column:user_id;not null;index" json:"user_id"`
	Message   string         `gorm:"column:message;not null" json:"message"`
	Response  string         `gorm:"column:response;not null" json:"response"`
	Analysis  datatypes.JSON `gorm:"column:analysis" json:"analysis,omitempty"`
	FromCache bool           `gorm:"column:from_cache;not null;default:false" json:"from_cache"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (ChatInteraction) TableName() string { return "chat_interaction" }

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document is one row of the keyed document store. Node is the collection
// name ("lessons", "users", ...) and Key is unique within a node.
type Document struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Node      string         `gorm:"column:node;not null;index:idx_node_key,unique" json:"node"`
	Key       string         `gorm:"column:key;not null;index:idx_node_key,unique" json:"key"`
	Data      datatypes.JSON `gorm:"column:data" json:"data"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Document) TableName() string { return "document" }

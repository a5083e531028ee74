package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

// DocumentRepo is the keyed document store: read a value at node/key, list a
// node, or read values matching an equality filter on a JSON field.
type DocumentRepo interface {
	Get(ctx context.Context, tx *gorm.DB, node, key string) (*types.Document, error)
	List(ctx context.Context, tx *gorm.DB, node string) ([]*types.Document, error)
	QueryEqual(ctx context.Context, tx *gorm.DB, node, field string, value interface{}) ([]*types.Document, error)
	Push(ctx context.Context, tx *gorm.DB, node string, data datatypes.JSON) (*types.Document, error)
	Set(ctx context.Context, tx *gorm.DB, node, key string, data datatypes.JSON) (*types.Document, error)
	Delete(ctx context.Context, tx *gorm.DB, node, key string) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Get(ctx context.Context, tx *gorm.DB, node, key string) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var doc types.Document
	if err := transaction.WithContext(ctx).
		Where("node = ? AND key = ?", node, key).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, tx *gorm.DB, node string) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("node = ?", node).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) QueryEqual(ctx context.Context, tx *gorm.DB, node, field string, value interface{}) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("node = ?", node).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) Push(ctx context.Context, tx *gorm.DB, node string, data datatypes.JSON) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	id := uuid.New()
	doc := &types.Document{
		ID:   id,
		Node: node,
		Key:  id.String(),
		Data: data,
	}
	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *documentRepo) Set(ctx context.Context, tx *gorm.DB, node, key string, data datatypes.JSON) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// The lookup must match on (node, key) alone; a pre-set ID would end up
	// in the conditions and miss the existing row.
	doc := &types.Document{Node: node, Key: key}
	if err := transaction.WithContext(ctx).
		Where("node = ? AND key = ?", node, key).
		Attrs(types.Document{ID: uuid.New()}).
		Assign(map[string]interface{}{"data": data}).
		FirstOrCreate(doc).Error; err != nil {
		return nil, err
	}
	doc.Data = data
	return doc, nil
}

func (r *documentRepo) Delete(ctx context.Context, tx *gorm.DB, node, key string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("node = ? AND key = ?", node, key).
		Delete(&types.Document{}).Error; err != nil {
		return err
	}
	return nil
}

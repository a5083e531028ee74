package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

// SkillNodes are the six content collections the recommendation pipeline
// aggregates over, in the fixed order that drives stable-sort tie-breaking.
var SkillNodes = []string{
	"lessons",
	"reading_exercises",
	"writing_topics",
	"speaking_exercises",
	"listening_exercises",
	"grammar_exercises",
}

func IsSkillNode(node string) bool {
	for _, n := range SkillNodes {
		if n == node {
			return true
		}
	}
	return false
}

type ContentService interface {
	Create(ctx context.Context, node string, item json.RawMessage) (*types.Document, error)
	Get(ctx context.Context, node, key string) (*types.Document, error)
	List(ctx context.Context, node string) ([]*types.Document, error)
	Update(ctx context.Context, node, key string, item json.RawMessage) (*types.Document, error)
	Delete(ctx context.Context, node, key string) error
}

type contentService struct {
	db           *gorm.DB
	log          *logger.Logger
	documentRepo repos.DocumentRepo
}

func NewContentService(db *gorm.DB, log *logger.Logger, documentRepo repos.DocumentRepo) ContentService {
	serviceLog := log.With("service", "ContentService")
	return &contentService{db: db, log: serviceLog, documentRepo: documentRepo}
}

func validateContentItem(node string, item json.RawMessage) error {
	if !IsSkillNode(node) {
		return apierr.Validation(fmt.Sprintf("Unknown content collection: %s", node))
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(item, &probe); err != nil {
		return apierr.Validation("Content item must be a JSON object")
	}
	return nil
}

func (cs *contentService) Create(ctx context.Context, node string, item json.RawMessage) (*types.Document, error) {
	if err := validateContentItem(node, item); err != nil {
		return nil, err
	}
	doc, err := cs.documentRepo.Push(ctx, nil, node, datatypes.JSON(item))
	if err != nil {
		cs.log.Error("Failed to create content item", "node", node, "error", err)
		return nil, apierr.Store(fmt.Errorf("create content item: %w", err))
	}
	return doc, nil
}

func (cs *contentService) Get(ctx context.Context, node, key string) (*types.Document, error) {
	if !IsSkillNode(node) {
		return nil, apierr.Validation(fmt.Sprintf("Unknown content collection: %s", node))
	}
	doc, err := cs.documentRepo.Get(ctx, nil, node, key)
	if err != nil {
		cs.log.Error("Failed to fetch content item", "node", node, "key", key, "error", err)
		return nil, apierr.Store(fmt.Errorf("fetch content item: %w", err))
	}
	if doc == nil {
		return nil, apierr.NotFound("Content item not found")
	}
	return doc, nil
}

func (cs *contentService) List(ctx context.Context, node string) ([]*types.Document, error) {
	if !IsSkillNode(node) {
		return nil, apierr.Validation(fmt.Sprintf("Unknown content collection: %s", node))
	}
	docs, err := cs.documentRepo.List(ctx, nil, node)
	if err != nil {
		cs.log.Error("Failed to list content items", "node", node, "error", err)
		return nil, apierr.Store(fmt.Errorf("list content items: %w", err))
	}
	return docs, nil
}

func (cs *contentService) Update(ctx context.Context, node, key string, item json.RawMessage) (*types.Document, error) {
	if err := validateContentItem(node, item); err != nil {
		return nil, err
	}
	doc, err := cs.documentRepo.Set(ctx, nil, node, key, datatypes.JSON(item))
	if err != nil {
		cs.log.Error("Failed to update content item", "node", node, "key", key, "error", err)
		return nil, apierr.Store(fmt.Errorf("update content item: %w", err))
	}
	return doc, nil
}

func (cs *contentService) Delete(ctx context.Context, node, key string) error {
	if !IsSkillNode(node) {
		return apierr.Validation(fmt.Sprintf("Unknown content collection: %s", node))
	}
	if err := cs.documentRepo.Delete(ctx, nil, node, key); err != nil {
		cs.log.Error("Failed to delete content item", "node", node, "key", key, "error", err)
		return apierr.Store(fmt.Errorf("delete content item: %w", err))
	}
	return nil
}

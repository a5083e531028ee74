package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

// UsersNode is the document collection holding learner profiles, keyed by
// learner id.
const UsersNode = "users"

type ProfileUpdateInput struct {
	UserID                 string   `json:"userId"`
	DisplayName            string   `json:"displayName"`
	Level                  string   `json:"level"`
	LearningGoals          []string `json:"learningGoals"`
	PreferredTopics        []string `json:"preferredTopics"`
	PreferredLearningStyle string   `json:"preferredLearningStyle"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*types.LearnerProfile, error)
	UpdateProfile(ctx context.Context, input ProfileUpdateInput) error
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	documentRepo repos.DocumentRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, documentRepo repos.DocumentRepo) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{db: db, log: serviceLog, documentRepo: documentRepo}
}

// GetProfile distinguishes three outcomes: a present profile (with defaults
// substituted for missing optional fields), an absent profile (not_found),
// and a store failure (store).
func (ps *profileService) GetProfile(ctx context.Context, userID string) (*types.LearnerProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apierr.Validation("Missing userId")
	}

	doc, err := ps.documentRepo.Get(ctx, nil, UsersNode, userID)
	if err != nil {
		ps.log.Error("Profile lookup failed", "user_id", userID, "error", err)
		return nil, apierr.Store(fmt.Errorf("profile lookup: %w", err))
	}
	if doc == nil {
		return nil, apierr.NotFound("User profile not found")
	}

	var profile types.LearnerProfile
	if err := json.Unmarshal(doc.Data, &profile); err != nil {
		ps.log.Error("Profile document is malformed", "user_id", userID, "error", err)
		return nil, apierr.Store(fmt.Errorf("decode profile: %w", err))
	}
	profile.Normalize()
	return &profile, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, input ProfileUpdateInput) error {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return apierr.Validation("Missing userId")
	}

	profile := types.LearnerProfile{
		DisplayName:            input.DisplayName,
		Level:                  input.Level,
		LearningGoals:          input.LearningGoals,
		PreferredTopics:        input.PreferredTopics,
		PreferredLearningStyle: input.PreferredLearningStyle,
		UpdatedAt:              time.Now().UTC().Format(time.RFC3339),
	}
	profile.Normalize()

	data, err := json.Marshal(profile)
	if err != nil {
		return apierr.Store(fmt.Errorf("encode profile: %w", err))
	}

	if _, err := ps.documentRepo.Set(ctx, nil, UsersNode, userID, data); err != nil {
		ps.log.Error("Profile update failed", "user_id", userID, "error", err)
		return apierr.Store(fmt.Errorf("profile update: %w", err))
	}
	return nil
}

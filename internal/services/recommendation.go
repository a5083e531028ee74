package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

const (
	// A learner is considered to have mastered an item once their best
	// recorded score reaches this value.
	MasteryThreshold = 80.0

	// Level annotated onto candidates that carry no level of their own.
	DefaultLevel = "default"

	recommendationPageSize = 10
)

type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID string) ([]types.ContentCandidate, error)
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	profileService ProfileService
	historyService LearningHistoryService
	documentRepo   repos.DocumentRepo
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	profileService ProfileService,
	historyService LearningHistoryService,
	documentRepo repos.DocumentRepo,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:             db,
		log:            serviceLog,
		profileService: profileService,
		historyService: historyService,
		documentRepo:   documentRepo,
	}
}

// GetRecommendations runs the full pipeline: profile, best-score index,
// six-collection aggregation, filter chain, ranking. An absent profile is
// terminal; no further reads happen after it.
func (rs *recommendationService) GetRecommendations(ctx context.Context, userID string) ([]types.ContentCandidate, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apierr.Validation("Missing userId")
	}

	profile, err := rs.profileService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	bestScores, err := rs.historyService.BestScores(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := rs.aggregateCandidates(ctx, profile.Level)
	if err != nil {
		return nil, err
	}

	candidates = FilterByGoalTags(candidates, profile.LearningGoals)
	candidates = FilterByTopicTags(candidates, profile.PreferredTopics)
	candidates = FilterByLearningStyle(candidates, profile.PreferredLearningStyle)
	candidates = FilterByMastery(candidates, bestScores)

	return RankCandidates(candidates, recommendationPageSize), nil
}

// aggregateCandidates queries all six collections concurrently and
// concatenates the results in fixed collection order regardless of arrival
// order. Any single collection failure fails the whole aggregation; there is
// no partial-result mode.
func (rs *recommendationService) aggregateCandidates(ctx context.Context, level string) ([]types.ContentCandidate, error) {
	perNode := make([][]types.ContentCandidate, len(SkillNodes))

	g, gctx := errgroup.WithContext(ctx)
	for i, node := range SkillNodes {
		i, node := i, node
		g.Go(func() error {
			var (
				docs []*types.Document
				err  error
			)
			if level != "" {
				docs, err = rs.documentRepo.QueryEqual(gctx, nil, node, "level", level)
			} else {
				docs, err = rs.documentRepo.List(gctx, nil, node)
			}
			if err != nil {
				return fmt.Errorf("query %s: %w", node, err)
			}
			perNode[i] = rs.decodeCandidates(node, level, docs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		rs.log.Error("Candidate aggregation failed", "error", err)
		return nil, apierr.Store(err)
	}

	var all []types.ContentCandidate
	for _, batch := range perNode {
		all = append(all, batch...)
	}
	return all, nil
}

func (rs *recommendationService) decodeCandidates(node, level string, docs []*types.Document) []types.ContentCandidate {
	out := make([]types.ContentCandidate, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		var c types.ContentCandidate
		if err := json.Unmarshal(doc.Data, &c); err != nil {
			rs.log.Warn("Skipping malformed content item", "node", node, "key", doc.Key, "error", err)
			continue
		}
		// Recheck the level filter client-side, before level defaulting.
		if level != "" && c.Level != level {
			continue
		}
		// An item without a tags array is not recommendable; "no tags" never
		// means "matches everything".
		if c.Tags == nil {
			continue
		}
		if c.Level == "" {
			c.Level = DefaultLevel
		}
		if c.ID == "" && doc.Key != "" {
			c.ID = doc.Key
		}
		c.SourceNode = node
		out = append(out, c)
	}
	return out
}

func hasTagOverlap(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

// FilterByGoalTags keeps candidates whose tags intersect the learning goals.
// With no goals the filter is a no-op.
func FilterByGoalTags(candidates []types.ContentCandidate, goals []string) []types.ContentCandidate {
	if len(goals) == 0 {
		return candidates
	}
	out := make([]types.ContentCandidate, 0, len(candidates))
	for _, c := range candidates {
		if hasTagOverlap(c.Tags, goals) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByTopicTags keeps candidates whose tags intersect the preferred
// topics. With no topics the filter is a no-op.
func FilterByTopicTags(candidates []types.ContentCandidate, topics []string) []types.ContentCandidate {
	if len(topics) == 0 {
		return candidates
	}
	out := make([]types.ContentCandidate, 0, len(candidates))
	for _, c := range candidates {
		if hasTagOverlap(c.Tags, topics) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByLearningStyle keeps candidates whose learning style exactly
// matches the preferred style. With no preferred style it is a no-op.
func FilterByLearningStyle(candidates []types.ContentCandidate, style string) []types.ContentCandidate {
	if style == "" {
		return candidates
	}
	out := make([]types.ContentCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.LearningStyle == style {
			out = append(out, c)
		}
	}
	return out
}

// FilterByMastery drops candidates the learner has already mastered.
// Candidates without an identifier, or never seen in history, always pass.
func FilterByMastery(candidates []types.ContentCandidate, bestScores map[string]float64) []types.ContentCandidate {
	out := make([]types.ContentCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.ContentKey()
		if key != "" && bestScores[key] >= MasteryThreshold {
			continue
		}
		out = append(out, c)
	}
	return out
}

// RankCandidates stable-sorts by ascending difficulty (default applied at
// comparison time only) and truncates to limit. The input slice is not
// reordered.
func RankCandidates(candidates []types.ContentCandidate, limit int) []types.ContentCandidate {
	ranked := make([]types.ContentCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DifficultyOrDefault() < ranked[j].DifficultyOrDefault()
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

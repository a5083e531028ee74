package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func floatPtr(f float64) *float64 { return &f }

func candidate(id string, difficulty *float64, tags []string, style string) types.ContentCandidate {
	return types.ContentCandidate{
		ID:            id,
		Difficulty:    difficulty,
		Tags:          tags,
		LearningStyle: style,
	}
}

// fakeDocumentRepo serves documents from an in-memory per-node map and can
// be told to fail individual nodes.
type fakeDocumentRepo struct {
	docs     map[string][]*types.Document
	failNode string
}

func (f *fakeDocumentRepo) Get(ctx context.Context, tx *gorm.DB, node, key string) (*types.Document, error) {
	for _, doc := range f.docs[node] {
		if doc.Key == key {
			return doc, nil
		}
	}
	return nil, nil
}

func (f *fakeDocumentRepo) List(ctx context.Context, tx *gorm.DB, node string) ([]*types.Document, error) {
	if node == f.failNode {
		return nil, fmt.Errorf("node %s unavailable", node)
	}
	return f.docs[node], nil
}

func (f *fakeDocumentRepo) QueryEqual(ctx context.Context, tx *gorm.DB, node, field string, value interface{}) ([]*types.Document, error) {
	if node == f.failNode {
		return nil, fmt.Errorf("node %s unavailable", node)
	}
	var out []*types.Document
	for _, doc := range f.docs[node] {
		var probe map[string]interface{}
		if err := json.Unmarshal(doc.Data, &probe); err != nil {
			continue
		}
		if probe[field] == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) Push(ctx context.Context, tx *gorm.DB, node string, data datatypes.JSON) (*types.Document, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeDocumentRepo) Set(ctx context.Context, tx *gorm.DB, node, key string, data datatypes.JSON) (*types.Document, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, tx *gorm.DB, node, key string) error {
	return fmt.Errorf("not implemented")
}

func mustDoc(t *testing.T, key string, item map[string]interface{}) *types.Document {
	t.Helper()
	raw, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}
	return &types.Document{Key: key, Data: raw}
}

type fakeProfileService struct {
	profiles map[string]*types.LearnerProfile
}

func (f *fakeProfileService) GetProfile(ctx context.Context, userID string) (*types.LearnerProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apierr.NotFound("User profile not found")
	}
	p.Normalize()
	return p, nil
}

func (f *fakeProfileService) UpdateProfile(ctx context.Context, input ProfileUpdateInput) error {
	return fmt.Errorf("not implemented")
}

type fakeHistoryService struct {
	scores map[string]float64
	calls  int
}

func (f *fakeHistoryService) Add(ctx context.Context, input AddHistoryInput) error {
	return fmt.Errorf("not implemented")
}

func (f *fakeHistoryService) Get(ctx context.Context, userID string) ([]*types.LearningHistory, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeHistoryService) BestScores(ctx context.Context, userID string) (map[string]float64, error) {
	f.calls++
	if f.scores == nil {
		return map[string]float64{}, nil
	}
	return f.scores, nil
}

func newTestRecommendationService(t *testing.T, profiles *fakeProfileService, history *fakeHistoryService, docs *fakeDocumentRepo) RecommendationService {
	t.Helper()
	return NewRecommendationService(nil, testLogger(t), profiles, history, docs)
}

func TestFilterByGoalTags(t *testing.T) {
	candidates := []types.ContentCandidate{
		candidate("a", nil, []string{"grammar", "travel"}, ""),
		candidate("b", nil, []string{"food"}, ""),
		candidate("c", nil, []string{}, ""),
	}

	cases := []struct {
		name  string
		goals []string
		want  []string
	}{
		{name: "no_goals_is_noop", goals: nil, want: []string{"a", "b", "c"}},
		{name: "overlap_keeps_only_matches", goals: []string{"grammar"}, want: []string{"a"}},
		{name: "empty_tag_list_never_matches", goals: []string{"anything"}, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterByGoalTags(candidates, tc.goals)
			assertCandidateIDs(t, got, tc.want)
		})
	}
}

func TestFilterByLearningStyle(t *testing.T) {
	candidates := []types.ContentCandidate{
		candidate("a", nil, []string{}, "visual"),
		candidate("b", nil, []string{}, "auditory"),
		candidate("c", nil, []string{}, ""),
	}

	if got := FilterByLearningStyle(candidates, ""); len(got) != 3 {
		t.Fatalf("no style should be a no-op, got %d candidates", len(got))
	}
	assertCandidateIDs(t, FilterByLearningStyle(candidates, "visual"), []string{"a"})
}

func TestFilterByMasteryBoundary(t *testing.T) {
	candidates := []types.ContentCandidate{
		candidate("mastered", nil, []string{}, ""),
		candidate("close", nil, []string{}, ""),
		candidate("unseen", nil, []string{}, ""),
		candidate("", nil, []string{}, ""),
	}
	best := map[string]float64{
		"mastered": 80,
		"close":    79,
	}

	got := FilterByMastery(candidates, best)
	assertCandidateIDs(t, got, []string{"close", "unseen", ""})
}

func TestRankCandidates(t *testing.T) {
	candidates := []types.ContentCandidate{
		candidate("five", floatPtr(5), []string{}, ""),
		candidate("default-a", nil, []string{}, ""),
		candidate("two", floatPtr(2), []string{}, ""),
		candidate("default-b", nil, []string{}, ""),
		candidate("three", floatPtr(3), []string{}, ""),
	}

	got := RankCandidates(candidates, 10)
	// Default difficulty is 3, ties keep aggregation order.
	assertCandidateIDs(t, got, []string{"two", "default-a", "default-b", "three", "five"})

	// Idempotent: ranking the ranked list changes nothing.
	again := RankCandidates(got, 10)
	assertCandidateIDs(t, again, []string{"two", "default-a", "default-b", "three", "five"})

	// The input slice order is untouched.
	if candidates[0].ID != "five" {
		t.Fatalf("input slice was reordered, first id = %q", candidates[0].ID)
	}
}

func TestRankCandidatesTruncates(t *testing.T) {
	var candidates []types.ContentCandidate
	for i := 0; i < 25; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("c%d", i), floatPtr(float64(i%7)), []string{}, ""))
	}
	got := RankCandidates(candidates, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 results, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].DifficultyOrDefault() > got[i].DifficultyOrDefault() {
			t.Fatalf("results not sorted ascending at %d", i)
		}
	}
}

func seededContentRepo(t *testing.T) *fakeDocumentRepo {
	t.Helper()
	return &fakeDocumentRepo{docs: map[string][]*types.Document{
		"grammar_exercises": {
			mustDoc(t, "g1", map[string]interface{}{
				"id": "g1", "level": "B1", "tags": []string{"grammar"}, "difficulty": 5,
			}),
			mustDoc(t, "g2", map[string]interface{}{
				"id": "g2", "level": "B1", "tags": []string{"grammar"}, "difficulty": 2,
			}),
			mustDoc(t, "g3", map[string]interface{}{
				"id": "g3", "level": "B1",
			}),
		},
	}}
}

func TestGetRecommendationsEndToEnd(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*types.LearnerProfile{
		"u1": {Level: "B1", LearningGoals: []string{"grammar"}},
	}}
	history := &fakeHistoryService{}
	svc := newTestRecommendationService(t, profiles, history, seededContentRepo(t))

	recs, err := svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	// The untagged B1 item is excluded during aggregation; the two tagged
	// items come back in ascending difficulty order.
	assertCandidateIDs(t, recs, []string{"g2", "g1"})
	for _, r := range recs {
		if r.SourceNode != "grammar_exercises" {
			t.Fatalf("missing provenance on %q: %q", r.ID, r.SourceNode)
		}
	}
}

func TestGetRecommendationsExcludesMastered(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*types.LearnerProfile{
		"u1": {Level: "B1", LearningGoals: []string{"grammar"}},
	}}
	history := &fakeHistoryService{scores: map[string]float64{"g2": 85}}
	svc := newTestRecommendationService(t, profiles, history, seededContentRepo(t))

	recs, err := svc.GetRecommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	assertCandidateIDs(t, recs, []string{"g1"})
}

func TestGetRecommendationsProfileNotFound(t *testing.T) {
	profiles := &fakeProfileService{profiles: map[string]*types.LearnerProfile{}}
	history := &fakeHistoryService{}
	svc := newTestRecommendationService(t, profiles, history, &fakeDocumentRepo{})

	_, err := svc.GetRecommendations(context.Background(), "missing")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("expected not_found apierr, got %v", err)
	}
	if history.calls != 0 {
		t.Fatalf("history must not be read after a missing profile, got %d reads", history.calls)
	}
}

func TestGetRecommendationsMissingUserID(t *testing.T) {
	svc := newTestRecommendationService(t, &fakeProfileService{}, &fakeHistoryService{}, &fakeDocumentRepo{})
	_, err := svc.GetRecommendations(context.Background(), "  ")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeValidation {
		t.Fatalf("expected validation apierr, got %v", err)
	}
}

func TestGetRecommendationsEmptyFiltersAreNoop(t *testing.T) {
	docs := &fakeDocumentRepo{docs: map[string][]*types.Document{
		"lessons": {
			mustDoc(t, "l1", map[string]interface{}{"id": "l1", "tags": []string{"travel"}}),
		},
		"reading_exercises": {
			mustDoc(t, "r1", map[string]interface{}{"id": "r1", "tags": []string{}}),
		},
	}}
	profiles := &fakeProfileService{profiles: map[string]*types.LearnerProfile{
		"u2": {},
	}}
	svc := newTestRecommendationService(t, profiles, &fakeHistoryService{}, docs)

	recs, err := svc.GetRecommendations(context.Background(), "u2")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	// Everything with an explicit tags array survives, in fixed collection
	// order (lessons before reading), with defaulted levels.
	assertCandidateIDs(t, recs, []string{"l1", "r1"})
	if recs[0].Level != DefaultLevel {
		t.Fatalf("expected defaulted level, got %q", recs[0].Level)
	}
}

func TestAggregationIsAllOrNothing(t *testing.T) {
	docs := seededContentRepo(t)
	docs.failNode = "listening_exercises"
	profiles := &fakeProfileService{profiles: map[string]*types.LearnerProfile{
		"u1": {Level: "B1"},
	}}
	svc := newTestRecommendationService(t, profiles, &fakeHistoryService{}, docs)

	_, err := svc.GetRecommendations(context.Background(), "u1")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeStore {
		t.Fatalf("expected store apierr when one collection fails, got %v", err)
	}
}

func assertCandidateIDs(t *testing.T, got []types.ContentCandidate, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d (%v)", len(got), len(want), candidateIDs(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("candidate %d = %q, want %q (all: %v)", i, got[i].ID, want[i], candidateIDs(got))
		}
	}
}

func candidateIDs(list []types.ContentCandidate) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

package services

import (
	"math/rand"
	"testing"

	"github.com/lingobridge/lingobridge-backend/internal/types"
)

func historyRow(lessonID string, score float64) *types.LearningHistory {
	return &types.LearningHistory{LessonID: lessonID, Score: score}
}

func TestBuildBestScoreIndexKeepsMax(t *testing.T) {
	rows := []*types.LearningHistory{
		historyRow("l1", 40),
		historyRow("l1", 85),
		historyRow("l1", 60),
		historyRow("l2", 10),
		nil,
		historyRow("", 99),
	}

	index := BuildBestScoreIndex(rows)
	if got := index["l1"]; got != 85 {
		t.Fatalf("index[l1] = %v, want 85", got)
	}
	if got := index["l2"]; got != 10 {
		t.Fatalf("index[l2] = %v, want 10", got)
	}
	if _, ok := index[""]; ok {
		t.Fatalf("rows without a lesson id must be ignored")
	}
}

func TestBuildBestScoreIndexOrderIndependent(t *testing.T) {
	rows := []*types.LearningHistory{
		historyRow("a", 10), historyRow("a", 90), historyRow("b", 55),
		historyRow("c", 80), historyRow("c", 79), historyRow("b", 56),
	}

	want := BuildBestScoreIndex(rows)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]*types.LearningHistory, len(rows))
		copy(shuffled, rows)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := BuildBestScoreIndex(shuffled)
		if len(got) != len(want) {
			t.Fatalf("shuffle %d: index size %d, want %d", i, len(got), len(want))
		}
		for k, v := range want {
			if got[k] != v {
				t.Fatalf("shuffle %d: index[%s] = %v, want %v", i, k, got[k], v)
			}
		}
	}
}

package types

// ContentCandidate is the normalized view over the six content collections
// that the recommendation pipeline works on. Tags distinguishes "no tags
// field" (nil) from an explicit empty list: an item without a tags array is
// not recommendable at all.
type ContentCandidate struct {
	ID            string   `json:"id,omitempty"`
	LessonID      string   `json:"lessonId,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Level         string   `json:"level,omitempty"`
	Difficulty    *float64 `json:"difficulty,omitempty"`
	Tags          []string `json:"tags"`
	LearningStyle string   `json:"learningStyle,omitempty"`
	SourceNode    string   `json:"sourceNode,omitempty"`
}

const DefaultDifficulty = 3.0

// ContentKey is the identifier used against the best-score index. Items may
// carry either an "id" or a "lessonId" field depending on the collection.
func (c ContentCandidate) ContentKey() string {
	if c.ID != "" {
		return c.ID
	}
	return c.LessonID
}

// DifficultyOrDefault is used at comparison time only; candidates are never
// mutated by the ranker.
func (c ContentCandidate) DifficultyOrDefault() float64 {
	if c.Difficulty != nil {
		return *c.Difficulty
	}
	return DefaultDifficulty
}

package types

// LearnerProfile is the document stored at users/{userId}. Absence of the
// document is distinct from an empty-but-present profile.
type LearnerProfile struct {
	DisplayName            string   `json:"displayName,omitempty"`
	Level                  string   `json:"level,omitempty"`
	LearningGoals          []string `json:"learningGoals"`
	PreferredTopics        []string `json:"preferredTopics"`
	PreferredLearningStyle string   `json:"preferredLearningStyle,omitempty"`
	UpdatedAt              string   `json:"updatedAt,omitempty"`
}

// Normalize substitutes defaults for missing optional fields: goals and
// topics become empty sets, level and style stay empty strings.
func (p *LearnerProfile) Normalize() {
	if p.LearningGoals == nil {
		p.LearningGoals = []string{}
	}
	if p.PreferredTopics == nil {
		p.PreferredTopics = []string{}
	}
}

package recommendations

import "time"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	TypeSkillSurplus = "skill_surplus"
	TypeSkillGap     = "skill_gap"
	TypeTopTalent    = "top_talent"
)

// Recommendation is one insight inside an aggregation batch. Batches are
// immutable: a new run writes a new batch_id and never touches prior rows.
type Recommendation struct {
	ID          string
	BatchID     string
	Type        string
	Priority    string
	Title       string
	Description string
	UserID      string
	Rank        int
	CreatedAt   time.Time
}

// Batch summarizes one aggregation run.
type Batch struct {
	ID              string
	GeneratedAt     time.Time
	Recommendations []Recommendation
}

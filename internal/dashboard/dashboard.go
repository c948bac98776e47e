package dashboard

import "context"

// SkillCount is one entry in the top-skills tally.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Stats is the aggregate pipeline snapshot served to dashboards.
type Stats struct {
	DocumentsProcessed   int          `json:"documentsProcessed"`
	ActiveCandidates     int          `json:"activeCandidates"`
	CompletedExtractions int          `json:"completedExtractions"`
	AvgProcessingMs      float64      `json:"avgProcessingMs"`
	TopSkills            []SkillCount `json:"topSkills"`
}

// Repo computes the aggregate counts.
type Repo interface {
	Stats(ctx context.Context) (Stats, error)
}

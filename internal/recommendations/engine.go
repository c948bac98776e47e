package recommendations

import (
	"fmt"
	"sort"
	"strings"
)

// EngineConfig tunes the aggregation pass.
type EngineConfig struct {
	// TopTalentThreshold is the probability floor for the top-talent cohort.
	TopTalentThreshold float64
	// HighPriorityFraction is the pool share above which an insight is high
	// priority.
	HighPriorityFraction float64
	// SurplusFraction marks a skill over-represented; GapFraction marks one
	// under-represented.
	SurplusFraction float64
	GapFraction     float64
}

// DefaultEngineConfig mirrors the production tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TopTalentThreshold:   90,
		HighPriorityFraction: 0.3,
		SurplusFraction:      0.5,
		GapFraction:          0.1,
	}
}

// ProfileInput is one windowed extraction with its current probability, when
// scored.
type ProfileInput struct {
	ExtractionID string
	SkillTokens  []string
	Probability  *float64
}

type insight struct {
	Type        string
	Title       string
	Description string
	Priority    string
}

// Generate produces the ranked insight set for a window of profiles. The
// output is deterministic for identical input: priority rank first, then
// title lexical order. Row timestamps are assigned by the caller at insert
// time, so determinism here is purely structural.
func Generate(profiles []ProfileInput, cfg EngineConfig) []insight {
	if cfg.TopTalentThreshold <= 0 {
		cfg.TopTalentThreshold = 90
	}
	if cfg.HighPriorityFraction <= 0 {
		cfg.HighPriorityFraction = 0.3
	}
	if cfg.SurplusFraction <= 0 {
		cfg.SurplusFraction = 0.5
	}
	if cfg.GapFraction <= 0 {
		cfg.GapFraction = 0.1
	}

	pool := len(profiles)
	if pool == 0 {
		return nil
	}

	// Tally each skill once per profile.
	counts := make(map[string]int)
	for _, p := range profiles {
		seen := make(map[string]struct{}, len(p.SkillTokens))
		for _, token := range p.SkillTokens {
			token = strings.ToLower(strings.TrimSpace(token))
			if token == "" {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			counts[token]++
		}
	}

	skills := make([]string, 0, len(counts))
	for skill := range counts {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	var out []insight
	for _, skill := range skills {
		fraction := float64(counts[skill]) / float64(pool)
		switch {
		case fraction >= cfg.SurplusFraction:
			out = append(out, insight{
				Type:        TypeSkillSurplus,
				Title:       fmt.Sprintf("Strong bench in %s", skill),
				Description: fmt.Sprintf("%d of %d recent profiles list %s. Consider roles that leverage this depth.", counts[skill], pool, skill),
				Priority:    priorityFor(fraction, cfg.HighPriorityFraction),
			})
		case fraction <= cfg.GapFraction:
			out = append(out, insight{
				Type:        TypeSkillGap,
				Title:       fmt.Sprintf("Scarce competency: %s", skill),
				Description: fmt.Sprintf("Only %d of %d recent profiles list %s. Sourcing or training may be needed.", counts[skill], pool, skill),
				Priority:    PriorityMedium,
			})
		}
	}

	topTalent := 0
	for _, p := range profiles {
		if p.Probability != nil && *p.Probability >= cfg.TopTalentThreshold {
			topTalent++
		}
	}
	if topTalent > 0 {
		out = append(out, insight{
			Type:        TypeTopTalent,
			Title:       fmt.Sprintf("Top-talent cohort of %d candidates", topTalent),
			Description: fmt.Sprintf("%d of %d scored profiles exceed %.0f%% predicted success. Prioritize outreach before they go cold.", topTalent, pool, cfg.TopTalentThreshold),
			Priority:    PriorityHigh,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorityRank(out[i].Priority), priorityRank(out[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func priorityFor(fraction, highFraction float64) string {
	if fraction >= highFraction {
		return PriorityHigh
	}
	return PriorityMedium
}

func priorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

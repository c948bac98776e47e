package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// HeuristicClient is a deterministic local stand-in for the external
// extraction and scoring services, used in dev and tests. It keeps the
// pipeline runnable without network access; it is not a parsing algorithm the
// pipeline depends on.
type HeuristicClient struct{}

var (
	yearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\s*(\+)?\s*(years?|años)`)

	knownSkills = map[string]string{
		"go": "backend", "golang": "backend", "java": "backend", "python": "backend",
		"node": "backend", "react": "frontend", "angular": "frontend", "vue": "frontend",
		"typescript": "frontend", "javascript": "frontend", "sql": "data",
		"postgresql": "data", "mysql": "data", "mongodb": "data", "spark": "data",
		"aws": "cloud", "azure": "cloud", "gcp": "cloud", "docker": "cloud",
		"kubernetes": "cloud", "terraform": "cloud", "devops": "cloud",
		"leadership": "soft", "communication": "soft", "scrum": "soft", "agile": "soft",
	}
)

// Extract derives a profile from the raw text with simple token matching.
func (HeuristicClient) Extract(ctx context.Context, ref DocumentRef) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	text := strings.TrimSpace(ref.RawText)
	if text == "" {
		return Profile{}, fmt.Errorf("%w: document %s has no text", ErrMalformedContent, ref.DocumentID)
	}

	lower := strings.ToLower(text)
	profile := Profile{
		EntityType:      "candidate",
		SkillCategories: map[string][]string{},
	}

	if m := yearsPattern.FindStringSubmatch(lower); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			profile.YearsExperience = years
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		profile.FullName = strings.TrimSpace(lines[0])
	}

	seen := map[string]bool{}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '+' || r == '#')
	})
	for _, w := range words {
		category, ok := knownSkills[w]
		if !ok || seen[w] {
			continue
		}
		seen[w] = true
		profile.SkillTokens = append(profile.SkillTokens, w)
		profile.SkillCategories[category] = append(profile.SkillCategories[category], w)
	}
	sort.Strings(profile.SkillTokens)

	return profile, nil
}

// Score computes a deterministic probability from profile completeness.
func (HeuristicClient) Score(ctx context.Context, profile Profile, modelVersion string, params json.RawMessage) (ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return ScoreResult{}, err
	}

	probability := 35.0
	factors := make([]string, 0, 4)

	if n := len(profile.SkillTokens); n > 0 {
		probability += float64(n) * 4
		factors = append(factors, fmt.Sprintf("%d indexed skills", n))
	}
	if profile.YearsExperience > 0 {
		probability += float64(profile.YearsExperience) * 2.5
		factors = append(factors, fmt.Sprintf("%d years of experience", profile.YearsExperience))
	}
	if profile.Education != "" {
		probability += 5
		factors = append(factors, "documented education")
	}
	if len(factors) == 0 {
		factors = append(factors, "sparse profile")
	}

	if probability > 100 {
		probability = 100
	}

	_ = modelVersion
	_ = params
	return ScoreResult{Probability: probability, Factors: factors}, nil
}

var (
	_ Extractor = HeuristicClient{}
	_ Scorer    = HeuristicClient{}
)

package recommendations

import (
	"reflect"
	"testing"
)

func prob(v float64) *float64 { return &v }

func TestGenerateIsDeterministic(t *testing.T) {
	profiles := []ProfileInput{
		{ExtractionID: "e1", SkillTokens: []string{"Go", "SQL", "React"}, Probability: prob(95)},
		{ExtractionID: "e2", SkillTokens: []string{"go", "sql"}, Probability: prob(40)},
		{ExtractionID: "e3", SkillTokens: []string{"go", "kubernetes"}, Probability: prob(92)},
		{ExtractionID: "e4", SkillTokens: []string{"go", "sql"}},
	}

	first := Generate(profiles, DefaultEngineConfig())
	second := Generate(profiles, DefaultEngineConfig())
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs over identical input produced different output")
	}
	if len(first) == 0 {
		t.Fatal("expected insights for a non-empty pool")
	}

	for i := 1; i < len(first); i++ {
		pi, pj := priorityRank(first[i-1].Priority), priorityRank(first[i].Priority)
		if pi > pj {
			t.Fatalf("priority order violated at %d: %s before %s", i, first[i-1].Priority, first[i].Priority)
		}
		if pi == pj && first[i-1].Title > first[i].Title {
			t.Fatalf("title tiebreak violated at %d: %q before %q", i, first[i-1].Title, first[i].Title)
		}
	}
}

func TestGenerateSkillTally(t *testing.T) {
	// go appears in 4/4 profiles (surplus), kubernetes in 1/10 equivalent
	// fraction below the gap line with a larger pool.
	profiles := make([]ProfileInput, 0, 10)
	for i := 0; i < 10; i++ {
		tokens := []string{"go"}
		if i == 0 {
			tokens = append(tokens, "kubernetes")
		}
		profiles = append(profiles, ProfileInput{ExtractionID: "e", SkillTokens: tokens})
	}

	insights := Generate(profiles, DefaultEngineConfig())

	var surplus, gap bool
	for _, ins := range insights {
		switch ins.Type {
		case TypeSkillSurplus:
			surplus = true
			if ins.Priority != PriorityHigh {
				t.Fatalf("full-pool surplus priority = %s, want high", ins.Priority)
			}
		case TypeSkillGap:
			gap = true
		case TypeTopTalent:
			t.Fatal("top-talent insight without any scored profile")
		}
	}
	if !surplus || !gap {
		t.Fatalf("insights missing surplus=%v gap=%v", surplus, gap)
	}
}

func TestGenerateTopTalentCohort(t *testing.T) {
	profiles := []ProfileInput{
		{ExtractionID: "e1", Probability: prob(91)},
		{ExtractionID: "e2", Probability: prob(89.9)},
		{ExtractionID: "e3", Probability: prob(90)},
	}

	insights := Generate(profiles, DefaultEngineConfig())
	found := false
	for _, ins := range insights {
		if ins.Type == TypeTopTalent {
			found = true
			if ins.Priority != PriorityHigh {
				t.Fatalf("top-talent priority = %s, want high", ins.Priority)
			}
		}
	}
	if !found {
		t.Fatal("expected a top-talent insight at threshold 90")
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	if out := Generate(nil, DefaultEngineConfig()); out != nil {
		t.Fatalf("empty pool produced %d insights", len(out))
	}
}

func TestGenerateCountsSkillOncePerProfile(t *testing.T) {
	profiles := []ProfileInput{
		{ExtractionID: "e1", SkillTokens: []string{"go", "go", "GO"}},
		{ExtractionID: "e2", SkillTokens: []string{"sql"}},
		{ExtractionID: "e3", SkillTokens: []string{"sql"}},
		{ExtractionID: "e4", SkillTokens: []string{"sql"}},
	}

	for _, ins := range Generate(profiles, DefaultEngineConfig()) {
		if ins.Type == TypeSkillSurplus && ins.Title == "Strong bench in go" {
			t.Fatal("duplicate tokens within one profile inflated the tally")
		}
	}
}

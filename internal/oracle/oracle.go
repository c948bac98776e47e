package oracle

import (
	"context"
	"encoding/json"
	"errors"
)

// DocumentRef identifies a document submitted for extraction. RawText carries
// the cached plain text when available so the oracle does not re-download the
// binary.
type DocumentRef struct {
	DocumentID string
	FileName   string
	MimeType   string
	RawText    string
}

// Profile is the structured result of extraction.
type Profile struct {
	FullName        string              `json:"fullName"`
	CurrentRole     string              `json:"currentRole"`
	Employer        string              `json:"employer"`
	YearsExperience int                 `json:"yearsExperience"`
	Location        string              `json:"location"`
	Education       string              `json:"education"`
	SkillCategories map[string][]string `json:"skillCategories"`
	SkillTokens     []string            `json:"skillTokens"`
	EntityType      string              `json:"entityType"`
}

// ScoreResult is the scoring oracle output. Factors are ordered most
// influential first and must be preserved verbatim.
type ScoreResult struct {
	Probability float64  `json:"probability"`
	Factors     []string `json:"factors"`
}

// Extractor turns a document into a structured profile. Implementations must
// be idempotent with respect to resubmission by document id.
type Extractor interface {
	Extract(ctx context.Context, ref DocumentRef) (Profile, error)
}

// Scorer produces a success probability for a profile under a specific model
// version.
type Scorer interface {
	Score(ctx context.Context, profile Profile, modelVersion string, params json.RawMessage) (ScoreResult, error)
}

// ErrMalformedContent is a terminal extraction failure: the oracle could not
// derive a profile from the document content. Never retried.
var ErrMalformedContent = errors.New("oracle: malformed content")

// ErrUnavailable is a transient oracle failure eligible for retry.
var ErrUnavailable = errors.New("oracle: unavailable")

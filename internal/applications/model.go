package applications

import "time"

const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// validTransitions encodes the one-directional lifecycle. Terminal states
// have no outgoing edges.
var validTransitions = map[string][]string{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status string) bool {
	return len(validTransitions[status]) == 0 && (status == StatusApproved || status == StatusRejected)
}

// ValidStatus reports whether the string is a known lifecycle state.
func ValidStatus(status string) bool {
	switch status {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one candidate's bid for a vacancy. At most one exists per
// (candidate, vacancy) pair; the database constraint is the authority.
type Application struct {
	ID           string
	CandidateID  string
	VacancyID    string
	ExtractionID string
	Status       string
	RecruiterID  string
	Feedback     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

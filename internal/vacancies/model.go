package vacancies

import "time"

// Vacancy is an open position. Once applications exist against it, it is
// soft-deactivated rather than deleted.
type Vacancy struct {
	ID           string
	Title        string
	Description  string
	Requirements string
	Modality     string
	Active       bool
	CreatedAt    time.Time
}

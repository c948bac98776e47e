package vacancies

import "context"

// Repo defines persistence operations for vacancies.
type Repo interface {
	Create(ctx context.Context, vacancy Vacancy) error
	GetByID(ctx context.Context, vacancyID string) (Vacancy, error)
	// List returns vacancies newest-first; activeOnly filters out
	// deactivated ones.
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]Vacancy, error)
	Update(ctx context.Context, vacancy Vacancy) error
	SetActive(ctx context.Context, vacancyID string, active bool) error
}

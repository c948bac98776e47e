package applications

import "context"

// Repo defines persistence operations for applications.
type Repo interface {
	// Create inserts an application, relying on the storage-level uniqueness
	// constraint on (candidate, vacancy). A losing concurrent writer gets
	// ErrDuplicate.
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, applicationID string) (Application, error)
	ListByCandidate(ctx context.Context, candidateID string, limit, offset int) ([]Application, error)
	ListByVacancy(ctx context.Context, vacancyID string, limit, offset int) ([]Application, error)
	// Transition moves the application to a new status, guarded by the
	// current status so two concurrent reviewers cannot both win. Returns
	// the updated row.
	Transition(ctx context.Context, applicationID, fromStatus, toStatus, recruiterID, feedback string) (Application, error)
}

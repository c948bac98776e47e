package surveys

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used by tests and local development.
type MemoryRepo struct {
	mu        sync.Mutex
	surveys   map[string]Survey
	responses map[string]Response
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		surveys:   make(map[string]Survey),
		responses: make(map[string]Response),
	}
}

func (r *MemoryRepo) CreateSurvey(ctx context.Context, s Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys[s.ID] = s
	return nil
}

func (r *MemoryRepo) GetSurvey(ctx context.Context, surveyID string) (Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.surveys[surveyID]
	if !ok {
		return Survey{}, ErrNotFound
	}
	return row, nil
}

func (r *MemoryRepo) ListSurveys(ctx context.Context, activeOnly bool) ([]Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Survey
	for _, row := range r.surveys {
		if activeOnly && !row.Active {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) SetSurveyActive(ctx context.Context, surveyID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.surveys[surveyID]
	if !ok {
		return ErrNotFound
	}
	row.Active = active
	r.surveys[surveyID] = row
	return nil
}

func (r *MemoryRepo) CreateResponse(ctx context.Context, resp Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.responses {
		if row.SurveyID == resp.SurveyID && row.RespondentID == resp.RespondentID {
			return ErrDuplicateResponse
		}
	}
	r.responses[resp.ID] = resp
	return nil
}

func (r *MemoryRepo) GetResponse(ctx context.Context, responseID string) (Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.responses[responseID]
	if !ok {
		return Response{}, ErrResponseNotFound
	}
	return row, nil
}

func (r *MemoryRepo) ListResponses(ctx context.Context, surveyID string) ([]Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Response
	for _, row := range r.responses {
		if row.SurveyID == surveyID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

package vacancies

import "errors"

var (
	ErrNotFound = errors.New("vacancy not found")
	ErrInactive = errors.New("vacancy is not active")
)

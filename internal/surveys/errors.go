package surveys

import "errors"

var (
	ErrNotFound          = errors.New("survey not found")
	ErrResponseNotFound  = errors.New("survey response not found")
	ErrDuplicateResponse = errors.New("response already exists for survey and respondent")
	ErrInactive          = errors.New("survey is not active")
)

package applications

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrDuplicate         = errors.New("application already exists for candidate and vacancy")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

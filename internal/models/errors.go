package models

import "errors"

var (
	ErrNotFound  = errors.New("prediction model not found")
	ErrDuplicate = errors.New("prediction model name and version already exist")
	ErrNoActive  = errors.New("no active prediction model")
)

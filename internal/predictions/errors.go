package predictions

import "errors"

var (
	ErrNotFound            = errors.New("prediction not found")
	ErrExtractionNotReady  = errors.New("extraction has not completed")
	ErrInsufficientProfile = errors.New("profile lacks experience and skills")
)

const (
	ErrorCodeOracleUnavailable   = "oracle_unavailable"
	ErrorCodeInsufficientProfile = "insufficient_profile"
	ErrorCodeInternal            = "internal_error"
)

package extractions

import "errors"

var (
	ErrNotFound  = errors.New("extraction not found")
	ErrDuplicate = errors.New("extraction already exists")
)

const (
	ErrorCodeExtractionFailed  = "extraction_failed"
	ErrorCodeOracleUnavailable = "oracle_unavailable"
	ErrorCodeInternal          = "internal_error"
)

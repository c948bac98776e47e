package recommendations

import "errors"

var (
	ErrNotFound    = errors.New("recommendation batch not found")
	ErrRunInFlight = errors.New("aggregation run already in flight")
)

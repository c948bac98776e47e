package documents

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file exceeds size limit")
	ErrBadMimeType  = errors.New("mime type not allowed")
)

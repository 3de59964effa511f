package domain

import "errors"

var (
	ErrEmptyPrompt       = errors.New("prompt must not be empty")
	ErrNotImageContent   = errors.New("image service returned non-image content")
	ErrQueueItemNotFound = errors.New("queue item not found")
	ErrInvalidStatus     = errors.New("invalid queue item status")
)

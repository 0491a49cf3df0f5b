package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrInvalidPath = errors.New("invalid storage path")
	ErrStorageIO   = errors.New("storage i/o failure")
)

package repositories

import "errors"

// Sentinel errors returned, wrapped, by every repository implementation.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

package services

import "errors"

// Service-level errors. Handlers translate them to HTTP statuses.
var (
	ErrUnauthorized       = errors.New("not authorized")
	ErrAlreadyReviewed    = errors.New("product already reviewed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

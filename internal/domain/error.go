package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrQuoteUnavailable     = errors.New("quote unavailable")
)

package domain

import "errors"

var (
	ErrNoDataset         = errors.New("no dataset loaded")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrGateNotConfigured = errors.New("login gate not configured")
	ErrSecretNotFound    = errors.New("secret not found")
)

package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrReferenced         = errors.New("ENTITY_REFERENCED")
	ErrValidation         = errors.New("VALIDATION_ERROR")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
)

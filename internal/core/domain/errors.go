package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// Issue errors
var (
	ErrInvalidStatus = errors.New("invalid issue status")
	ErrIssueNotFound = errors.New("issue not found")
)

// Credential errors
var (
	ErrCredentialNotFound = errors.New("credential not found")
)

// Assistant errors
var (
	ErrAssistantDisabled  = errors.New("description assistant is not configured")
	ErrAssistantNoContent = errors.New("description assistant returned no suggestion")
)

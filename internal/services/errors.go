package services

import "errors"

var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrProfileExists    = errors.New("profile already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidUsername  = errors.New("username must be 3-30 characters of letters, digits, '_' or '-'")
	ErrInvalidCondition = errors.New("invalid card condition")
	ErrInvalidPriority  = errors.New("invalid want priority")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrMissingCardID    = errors.New("card id is required")
	ErrMissingSetID     = errors.New("set id is required")
)

// IngestionError is what an ingestion flow returns when it aborts. Error()
// is the message shown to the caller; the cause is kept for logs and errors.Is.
type IngestionError struct {
	Message string
	Err     error
}

func (e *IngestionError) Error() string {
	return e.Message
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

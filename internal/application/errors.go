package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrInvalidOperation = errors.New("invalid operation")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MoveError represents a move-related failure
type MoveError struct {
	SourceID string
	DestID   string
	Reason   string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.SourceID, e.DestID, e.Reason)
}

func (e *MoveError) Is(target error) bool {
	return target == ErrInvalidOperation
}

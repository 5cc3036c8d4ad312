package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Controllers map these onto HTTP statuses:
// ErrValidation -> 400, StateConflictError / ErrVersionConflict -> 409,
// gorm.ErrRecordNotFound -> 404, anything else -> generic 500 (root cause
// goes to the server log only).
var (
	ErrValidation      = errors.New("validation failed")
	ErrVersionConflict = errors.New("item was modified by another request, please retry")
)

// StateConflictError is returned when an item's derived state contradicts
// the requested transition. It always names the concrete current state so
// the client sees "item ABC is IN_ORDER", never a generic refusal.
type StateConflictError struct {
	ItemCode     string
	CurrentState string
	Message      string
}

func (e *StateConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("item %s is %s", e.ItemCode, e.CurrentState)
}

func NewStateConflict(itemCode, currentState, format string, args ...interface{}) *StateConflictError {
	return &StateConflictError{
		ItemCode:     itemCode,
		CurrentState: currentState,
		Message:      fmt.Sprintf(format, args...),
	}
}

// IsConflict reports whether err belongs to the conflict class.
func IsConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc) || errors.Is(err, ErrVersionConflict)
}

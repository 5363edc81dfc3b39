package entity

import "fmt"

// ValidationError rejects malformed input before any state change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks an unknown transaction/voucher/house/case id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError preserves original state: resolving an already-resolved
// case, or assigning a house to an already-confirmed deposit.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Msg
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// AllocationInvariantError fails a whole allocation atomically.
type AllocationInvariantError struct {
	Msg string
}

func (e *AllocationInvariantError) Error() string {
	return "allocation invariant: " + e.Msg
}

func NewAllocationInvariantError(format string, args ...interface{}) *AllocationInvariantError {
	return &AllocationInvariantError{Msg: fmt.Sprintf(format, args...)}
}

package domain

import "errors"

// Error kinds. Every use case and service error wraps exactly one of them.
var (
	// ErrValidation malformed or inadmissible input (missing date, inactive staff, time outside working hours)
	ErrValidation = errors.New("validation error")

	// ErrConflict the requested interval overlaps an active booking
	ErrConflict = errors.New("conflict")

	// ErrNotFound the referenced entity is absent or belongs to another organization
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrAlreadyProcessed a status transition found no appointment in the expected state
	ErrNotFoundOrAlreadyProcessed = errors.New("not found or already processed")
)

// Error kind names exposed to API clients
const (
	KindValidation                 = "VALIDATION"
	KindConflict                   = "CONFLICT"
	KindNotFound                   = "NOT_FOUND"
	KindNotFoundOrAlreadyProcessed = "NOT_FOUND_OR_ALREADY_PROCESSED"
	KindInternal                   = "INTERNAL"
)

// KindOf returns the kind name of err, or KindInternal if err wraps no known kind.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFoundOrAlreadyProcessed):
		return KindNotFoundOrAlreadyProcessed
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, duplicate license plate).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidState is returned when a requested trip transition does not apply
// to the trip's current status (e.g. dispatching a COMPLETED trip).
// Handlers should map this to HTTP 409 Conflict. Not retryable — the caller
// must pick a different action.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict is returned when a concurrent transition invalidated the read
// snapshot between guard evaluation and commit (a compare-and-swap write
// matched zero rows). Handlers should map this to HTTP 409 Conflict.
// Retryable: the caller may resubmit the whole transition from a fresh read.
var ErrConflict = errors.New("conflict")

// EligibilityReason is a machine-readable code identifying why a vehicle or
// driver may not participate in a trip transition. The code is surfaced
// verbatim in error responses so API clients can branch on it.
type EligibilityReason string

const (
	ReasonVehicleUnavailable EligibilityReason = "vehicle_unavailable"
	ReasonDriverUnavailable  EligibilityReason = "driver_unavailable"
	ReasonDriverSuspended    EligibilityReason = "driver_suspended"
	ReasonLicenseExpired     EligibilityReason = "license_expired"
	ReasonCargoTooHeavy      EligibilityReason = "cargo_too_heavy"
	ReasonAlreadyTerminal    EligibilityReason = "already_terminal"
)

// EligibilityError reports a failed eligibility check with a specific reason.
// The guards never coerce distinct failures into a generic error: a suspended
// driver is reported as driver_suspended, never as driver_unavailable, so
// callers always receive an actionable reason.
type EligibilityError struct {
	Reason  EligibilityReason
	Message string
}

func (e *EligibilityError) Error() string { return e.Message }

// ineligible is the constructor used by the guards in eligibility.go.
func ineligible(reason EligibilityReason, message string) *EligibilityError {
	return &EligibilityError{Reason: reason, Message: message}
}

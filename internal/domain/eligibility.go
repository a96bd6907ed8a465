package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// This file holds the eligibility guards and the transition planner.
// Everything here is a pure function over snapshots: no I/O, no clocks (the
// caller supplies now), so the whole decision surface is unit-testable
// without a database. The service layer evaluates a guard, builds a plan,
// and applies the plan's writes as one atomic unit.

// CanCreateTrip reports whether a new trip may be created for the given
// vehicle/driver pairing and cargo weight.
//
// Check order is deliberate: suspension is reported before generic driver
// unavailability so a caller is told "suspended" rather than the less
// actionable "not available", even though SUSPENDED is a subset of it.
func CanCreateTrip(v Vehicle, d Driver, cargoWeight float64, now time.Time) error {
	if v.Status != VehicleAvailable {
		return ineligible(ReasonVehicleUnavailable,
			fmt.Sprintf("vehicle is %s; only AVAILABLE vehicles can be assigned", v.Status))
	}
	if cargoWeight > v.MaxCapacity {
		return ineligible(ReasonCargoTooHeavy,
			fmt.Sprintf("cargo weight %.0fkg exceeds vehicle max capacity %.0fkg", cargoWeight, v.MaxCapacity))
	}
	if d.Status == DriverSuspended {
		return ineligible(ReasonDriverSuspended, "driver is suspended and cannot be assigned to trips")
	}
	if d.Status != DriverAvailable {
		return ineligible(ReasonDriverUnavailable,
			fmt.Sprintf("driver is %s; only AVAILABLE drivers can be assigned", d.Status))
	}
	if d.LicenseExpiry.Before(now) {
		return ineligible(ReasonLicenseExpired, "driver's license has expired")
	}
	return nil
}

// CanDispatch reports whether a trip may move from DRAFT to DISPATCHED.
// Vehicle and driver availability is re-validated here, not just at creation
// time: both may have been claimed, shopped, or suspended while the trip sat
// in DRAFT. The failure reports the concrete current status.
func CanDispatch(t Trip, v Vehicle, d Driver) error {
	if t.Status != TripDraft {
		return fmt.Errorf("%w: only DRAFT trips can be dispatched (trip is %s)", ErrInvalidState, t.Status)
	}
	if v.Status != VehicleAvailable {
		return ineligible(ReasonVehicleUnavailable,
			fmt.Sprintf("vehicle is %s, cannot dispatch", v.Status))
	}
	if d.Status != DriverAvailable {
		return ineligible(ReasonDriverUnavailable,
			fmt.Sprintf("driver is %s, cannot dispatch", d.Status))
	}
	return nil
}

// CanComplete reports whether a trip may move from DISPATCHED to COMPLETED.
func CanComplete(t Trip) error {
	if t.Status != TripDispatched {
		return fmt.Errorf("%w: only DISPATCHED trips can be completed (trip is %s)", ErrInvalidState, t.Status)
	}
	return nil
}

// CanCancel reports whether a trip may move to CANCELLED.
// Both DRAFT and DISPATCHED trips are cancellable; terminal trips are not.
func CanCancel(t Trip) error {
	if t.Status.Terminal() {
		return ineligible(ReasonAlreadyTerminal,
			fmt.Sprintf("trip is already %s and cannot be cancelled", t.Status))
	}
	return nil
}

// TripWrite is the planned status write for the trip itself.
// From is the expected prior status; the repo layer uses it as a
// compare-and-swap predicate so a concurrent transition fails the write
// instead of silently overwriting it.
type TripWrite struct {
	From TripStatus
	To   TripStatus

	// Completion fields, set only when To == COMPLETED.
	CompletedAt    *time.Time
	Distance       *float64
	ActualFuelCost *float64
}

// VehicleWrite is the planned status write for the trip's vehicle.
// Odometer is nil when the odometer must not be touched.
type VehicleWrite struct {
	VehicleID uuid.UUID
	From      VehicleStatus
	To        VehicleStatus
	Odometer  *float64
}

// DriverWrite is the planned status write for the trip's driver.
type DriverWrite struct {
	DriverID uuid.UUID
	From     DriverStatus
	To       DriverStatus
}

// TransitionPlan is the full set of writes a lifecycle transition must apply
// as one atomic unit. Vehicle and Driver are nil when the transition does not
// touch them (e.g. cancelling a DRAFT trip, which never claimed either).
type TransitionPlan struct {
	Trip    TripWrite
	Vehicle *VehicleWrite
	Driver  *DriverWrite
}

// CompleteOverrides carries the optional caller-supplied values for a
// completion. Absent fields fall back: FinalOdometer to the vehicle's current
// odometer (no write), Distance and ActualFuelCost to the trip's estimates.
type CompleteOverrides struct {
	FinalOdometer  *float64
	Distance       *float64
	ActualFuelCost *float64
}

// PlanDispatch validates and plans the DRAFT → DISPATCHED transition:
// the trip becomes DISPATCHED, the vehicle ON_TRIP, the driver ON_DUTY.
func PlanDispatch(t Trip, v Vehicle, d Driver) (TransitionPlan, error) {
	if err := CanDispatch(t, v, d); err != nil {
		return TransitionPlan{}, err
	}
	return TransitionPlan{
		Trip:    TripWrite{From: TripDraft, To: TripDispatched},
		Vehicle: &VehicleWrite{VehicleID: t.VehicleID, From: VehicleAvailable, To: VehicleOnTrip},
		Driver:  &DriverWrite{DriverID: t.DriverID, From: DriverAvailable, To: DriverOnDuty},
	}, nil
}

// PlanComplete validates and plans the DISPATCHED → COMPLETED transition.
// The vehicle and driver return to AVAILABLE; the vehicle's odometer is
// written only when the caller supplied a final reading. The odometer is
// monotonically non-decreasing, so a final reading below the current one is
// rejected.
func PlanComplete(t Trip, v Vehicle, o CompleteOverrides, now time.Time) (TransitionPlan, error) {
	if err := CanComplete(t); err != nil {
		return TransitionPlan{}, err
	}
	if o.FinalOdometer != nil && *o.FinalOdometer < v.Odometer {
		return TransitionPlan{}, fmt.Errorf("%w: final odometer %.0f is below current reading %.0f",
			ErrValidation, *o.FinalOdometer, v.Odometer)
	}

	distance := t.Distance
	if o.Distance != nil {
		distance = *o.Distance
	}
	actualFuelCost := t.EstimatedFuelCost
	if o.ActualFuelCost != nil {
		actualFuelCost = *o.ActualFuelCost
	}

	completedAt := now
	plan := TransitionPlan{
		Trip: TripWrite{
			From:           TripDispatched,
			To:             TripCompleted,
			CompletedAt:    &completedAt,
			Distance:       &distance,
			ActualFuelCost: &actualFuelCost,
		},
		Vehicle: &VehicleWrite{VehicleID: t.VehicleID, From: VehicleOnTrip, To: VehicleAvailable},
		Driver:  &DriverWrite{DriverID: t.DriverID, From: DriverOnDuty, To: DriverAvailable},
	}
	if o.FinalOdometer != nil {
		plan.Vehicle.Odometer = o.FinalOdometer
	}
	return plan, nil
}

// PlanCancel validates and plans the cancellation of a DRAFT or DISPATCHED
// trip. A DRAFT trip never claimed its vehicle or driver, so cancelling it
// plans no resource writes at all; a DISPATCHED trip releases both back to
// AVAILABLE.
func PlanCancel(t Trip) (TransitionPlan, error) {
	if err := CanCancel(t); err != nil {
		return TransitionPlan{}, err
	}
	plan := TransitionPlan{
		Trip: TripWrite{From: t.Status, To: TripCancelled},
	}
	if t.Status == TripDispatched {
		plan.Vehicle = &VehicleWrite{VehicleID: t.VehicleID, From: VehicleOnTrip, To: VehicleAvailable}
		plan.Driver = &DriverWrite{DriverID: t.DriverID, From: DriverOnDuty, To: DriverAvailable}
	}
	return plan, nil
}

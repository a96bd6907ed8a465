// Package service contains the business logic for the FleetFlow API.
// Services validate inputs, enforce eligibility rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations, and hand multi-record writes to a transaction runner.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// TxRunner is the transactional coordinator contract: it runs fn so that
// every write issued through the provided repos commits atomically, or not
// at all. Implemented by repo.TxManager; mocked in unit tests.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r repo.Repos) error) error
}

// TripService owns the trip lifecycle state machine. It is the only
// component that writes trip status, and the only one that moves vehicles
// between AVAILABLE/ON_TRIP and drivers between AVAILABLE/ON_DUTY.
type TripService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	drivers  repo.DriverRepo
	tx       TxRunner
}

// NewTripService constructs a TripService backed by the provided repos and
// transaction runner.
func NewTripService(trips repo.TripRepo, vehicles repo.VehicleRepo, drivers repo.DriverRepo, tx TxRunner) *TripService {
	return &TripService{trips: trips, vehicles: vehicles, drivers: drivers, tx: tx}
}

// CreateTripCommand carries the caller-supplied fields for a new trip.
type CreateTripCommand struct {
	VehicleID         uuid.UUID
	DriverID          uuid.UUID
	Origin            string
	Destination       string
	CargoWeight       float64
	EstimatedFuelCost float64
	Revenue           float64
}

// PatchTripCommand carries optional field updates for a non-terminal trip.
// Nil fields are left unchanged. Patching never touches trip status and has
// no vehicle or driver side effects.
type PatchTripCommand struct {
	Origin            *string
	Destination       *string
	CargoWeight       *float64
	EstimatedFuelCost *float64
	Revenue           *float64
}

// Create validates eligibility and inserts a new trip in DRAFT.
// A DRAFT trip claims neither its vehicle nor its driver, so no resource
// writes happen here; eligibility is re-validated at dispatch time anyway.
func (s *TripService) Create(ctx context.Context, cmd CreateTripCommand) (domain.Trip, error) {
	if strings.TrimSpace(cmd.Origin) == "" || strings.TrimSpace(cmd.Destination) == "" {
		return domain.Trip{}, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if cmd.CargoWeight < 0 {
		return domain.Trip{}, fmt.Errorf("%w: cargo weight must not be negative", domain.ErrValidation)
	}

	vehicle, err := s.vehicles.GetByID(ctx, cmd.VehicleID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: vehicle: %w", err)
	}
	driver, err := s.drivers.GetByID(ctx, cmd.DriverID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: driver: %w", err)
	}

	if err := domain.CanCreateTrip(vehicle, driver, cmd.CargoWeight, time.Now().UTC()); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, domain.Trip{
		VehicleID:         cmd.VehicleID,
		DriverID:          cmd.DriverID,
		Origin:            cmd.Origin,
		Destination:       cmd.Destination,
		CargoWeight:       cmd.CargoWeight,
		EstimatedFuelCost: cmd.EstimatedFuelCost,
		Revenue:           cmd.Revenue,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Dispatch moves a DRAFT trip to DISPATCHED, claiming its vehicle (ON_TRIP)
// and driver (ON_DUTY). The read, the guard, and all three writes run inside
// one transaction; the status writes are compare-and-swap, so two concurrent
// dispatches against the same vehicle can never both succeed.
func (s *TripService) Dispatch(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		vehicle, err := r.Vehicles.GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}
		driver, err := r.Drivers.GetByID(ctx, trip.DriverID)
		if err != nil {
			return err
		}

		plan, err := domain.PlanDispatch(trip, vehicle, driver)
		if err != nil {
			return err
		}
		updated, err = applyPlan(ctx, r, trip.ID, plan)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Dispatch: %w", err)
	}
	return updated, nil
}

// Complete moves a DISPATCHED trip to COMPLETED, releasing the vehicle and
// driver back to AVAILABLE. Caller-supplied overrides (final odometer,
// distance, actual fuel cost) default per domain.PlanComplete.
func (s *TripService) Complete(ctx context.Context, id uuid.UUID, overrides domain.CompleteOverrides) (domain.Trip, error) {
	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		vehicle, err := r.Vehicles.GetByID(ctx, trip.VehicleID)
		if err != nil {
			return err
		}

		plan, err := domain.PlanComplete(trip, vehicle, overrides, time.Now().UTC())
		if err != nil {
			return err
		}
		updated, err = applyPlan(ctx, r, trip.ID, plan)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w", err)
	}
	return updated, nil
}

// Cancel moves a DRAFT or DISPATCHED trip to CANCELLED. Only a DISPATCHED
// trip ever claimed its resources, so only then are the vehicle and driver
// released; cancelling a DRAFT trip touches nothing but the trip row.
func (s *TripService) Cancel(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}

		plan, err := domain.PlanCancel(trip)
		if err != nil {
			return err
		}
		updated, err = applyPlan(ctx, r, trip.ID, plan)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Cancel: %w", err)
	}
	return updated, nil
}

// Patch applies a plain field update to a non-terminal trip.
func (s *TripService) Patch(ctx context.Context, id uuid.UUID, cmd PatchTripCommand) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}
	if trip.Status.Terminal() {
		return domain.Trip{}, fmt.Errorf("%w: %s trips cannot be edited", domain.ErrInvalidState, trip.Status)
	}

	if cmd.Origin != nil {
		trip.Origin = *cmd.Origin
	}
	if cmd.Destination != nil {
		trip.Destination = *cmd.Destination
	}
	if cmd.CargoWeight != nil {
		trip.CargoWeight = *cmd.CargoWeight
	}
	if cmd.EstimatedFuelCost != nil {
		trip.EstimatedFuelCost = *cmd.EstimatedFuelCost
	}
	if cmd.Revenue != nil {
		trip.Revenue = *cmd.Revenue
	}

	if strings.TrimSpace(trip.Origin) == "" || strings.TrimSpace(trip.Destination) == "" {
		return domain.Trip{}, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if trip.CargoWeight < 0 {
		return domain.Trip{}, fmt.Errorf("%w: cargo weight must not be negative", domain.ErrValidation)
	}

	updated, err := s.trips.UpdateFields(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Patch: %w", err)
	}
	return updated, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns trips matching the filter, newest first. Always returns a
// non-nil slice so handlers encode an empty JSON array, not null.
func (s *TripService) List(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// applyPlan issues the plan's writes through the transaction-bound repos:
// trip first, then vehicle, then driver. All three commit or roll back
// together.
//
// A compare-and-swap miss on the vehicle or driver means the resource was
// claimed between this transaction's read and its write. That surfaces as
// the specific eligibility failure rather than a generic conflict, so the
// caller learns which resource raced away.
func applyPlan(ctx context.Context, r repo.Repos, tripID uuid.UUID, plan domain.TransitionPlan) (domain.Trip, error) {
	updated, err := r.Trips.UpdateStatus(ctx, tripID, plan.Trip)
	if err != nil {
		return domain.Trip{}, err
	}

	if plan.Vehicle != nil {
		err := r.Vehicles.SetStatus(ctx, plan.Vehicle.VehicleID, plan.Vehicle.From, plan.Vehicle.To, plan.Vehicle.Odometer)
		if errors.Is(err, domain.ErrConflict) {
			return domain.Trip{}, &domain.EligibilityError{
				Reason:  domain.ReasonVehicleUnavailable,
				Message: "vehicle was claimed by a concurrent operation",
			}
		}
		if err != nil {
			return domain.Trip{}, err
		}
	}

	if plan.Driver != nil {
		err := r.Drivers.SetStatus(ctx, plan.Driver.DriverID, plan.Driver.From, plan.Driver.To)
		if errors.Is(err, domain.ErrConflict) {
			return domain.Trip{}, &domain.EligibilityError{
				Reason:  domain.ReasonDriverUnavailable,
				Message: "driver was claimed by a concurrent operation",
			}
		}
		if err != nil {
			return domain.Trip{}, err
		}
	}

	return updated, nil
}

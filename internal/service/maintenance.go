package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// MaintenanceService records shop work against vehicles. Opening a log and
// flipping the vehicle to IN_SHOP happen in one transaction, as do closing
// the log and releasing the vehicle.
type MaintenanceService struct {
	maintenance repo.MaintenanceRepo
	vehicles    repo.VehicleRepo
	tx          TxRunner
}

// NewMaintenanceService constructs a MaintenanceService backed by the
// provided repos and transaction runner.
func NewMaintenanceService(maintenance repo.MaintenanceRepo, vehicles repo.VehicleRepo, tx TxRunner) *MaintenanceService {
	return &MaintenanceService{maintenance: maintenance, vehicles: vehicles, tx: tx}
}

// CreateMaintenanceCommand carries the caller-supplied fields for a new log.
type CreateMaintenanceCommand struct {
	VehicleID   uuid.UUID
	ServiceType string
	Cost        float64
	Date        time.Time
	Notes       string
}

// Create opens a maintenance log in IN_PROGRESS and moves the vehicle to
// IN_SHOP in the same transaction. A vehicle on an active trip cannot enter
// the shop — that returns domain.ErrConflict; cancel or complete the trip
// first. A vehicle already IN_SHOP can take a second concurrent log.
func (s *MaintenanceService) Create(ctx context.Context, cmd CreateMaintenanceCommand) (domain.MaintenanceLog, error) {
	if strings.TrimSpace(cmd.ServiceType) == "" {
		return domain.MaintenanceLog{}, fmt.Errorf("%w: service type is required", domain.ErrValidation)
	}
	if cmd.Cost < 0 {
		return domain.MaintenanceLog{}, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if cmd.Date.IsZero() {
		cmd.Date = time.Now().UTC()
	}

	var created domain.MaintenanceLog
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		vehicle, err := r.Vehicles.GetByID(ctx, cmd.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status == domain.VehicleOnTrip {
			return fmt.Errorf("%w: vehicle is on an active trip", domain.ErrConflict)
		}

		created, err = r.Maintenance.Create(ctx, domain.MaintenanceLog{
			VehicleID:   cmd.VehicleID,
			ServiceType: cmd.ServiceType,
			Cost:        cmd.Cost,
			Date:        cmd.Date,
			Notes:       cmd.Notes,
		})
		if err != nil {
			return err
		}

		if vehicle.Status == domain.VehicleInShop {
			return nil
		}
		return r.Vehicles.SetStatus(ctx, cmd.VehicleID, vehicle.Status, domain.VehicleInShop, nil)
	})
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("service.MaintenanceService.Create: %w", err)
	}
	return created, nil
}

// Complete closes an IN_PROGRESS log. The vehicle returns to AVAILABLE in
// the same transaction, unless another log for it is still open.
// Returns domain.ErrConflict if the log is not IN_PROGRESS.
func (s *MaintenanceService) Complete(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	var closed domain.MaintenanceLog
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		closed, err = r.Maintenance.SetStatus(ctx, id, domain.MaintenanceInProgress, domain.MaintenanceCompleted)
		if err != nil {
			return err
		}

		open, err := r.Maintenance.HasOpenByVehicle(ctx, closed.VehicleID)
		if err != nil {
			return err
		}
		if open {
			return nil
		}

		vehicle, err := r.Vehicles.GetByID(ctx, closed.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status != domain.VehicleInShop {
			return nil
		}
		return r.Vehicles.SetStatus(ctx, closed.VehicleID, domain.VehicleInShop, domain.VehicleAvailable, nil)
	})
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("service.MaintenanceService.Complete: %w", err)
	}
	return closed, nil
}

// GetByID returns a single maintenance log by ID.
func (s *MaintenanceService) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	log, err := s.maintenance.GetByID(ctx, id)
	if err != nil {
		return domain.MaintenanceLog{}, fmt.Errorf("service.MaintenanceService.GetByID: %w", err)
	}
	return log, nil
}

// List returns all maintenance logs, most recent service date first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *MaintenanceService) List(ctx context.Context) ([]domain.MaintenanceLog, error) {
	logs, err := s.maintenance.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MaintenanceService.List: %w", err)
	}
	if logs == nil {
		return []domain.MaintenanceLog{}, nil
	}
	return logs, nil
}

package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
	"github.com/fleetflow/backend/internal/service"
)

// Hand-written test doubles for the repo interfaces. Each mock delegates to
// function fields so individual tests can script exactly the calls they
// expect; unset fields return zero values.

// ---- trips -----------------------------------------------------------------

type mockTripRepo struct {
	create             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list               func(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error)
	updateFields       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	updateStatus       func(ctx context.Context, id uuid.UUID, write domain.TripWrite) (domain.Trip, error)
	hasActiveByVehicle func(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	hasActiveByDriver  func(ctx context.Context, driverID uuid.UUID) (bool, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error) {
	return m.list(ctx, filter)
}
func (m *mockTripRepo) UpdateFields(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.updateFields(ctx, trip)
}
func (m *mockTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, write domain.TripWrite) (domain.Trip, error) {
	return m.updateStatus(ctx, id, write)
}
func (m *mockTripRepo) HasActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	if m.hasActiveByVehicle != nil {
		return m.hasActiveByVehicle(ctx, vehicleID)
	}
	return false, nil
}
func (m *mockTripRepo) HasActiveByDriver(ctx context.Context, driverID uuid.UUID) (bool, error) {
	if m.hasActiveByDriver != nil {
		return m.hasActiveByDriver(ctx, driverID)
	}
	return false, nil
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- vehicles --------------------------------------------------------------

type mockVehicleRepo struct {
	create    func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	listPaged func(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update    func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	setStatus func(ctx context.Context, id uuid.UUID, from, to domain.VehicleStatus, odometer *float64) error
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, vehicle)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) ListPaged(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.listPaged(ctx, filter, page)
}
func (m *mockVehicleRepo) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, vehicle)
}
func (m *mockVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.VehicleStatus, odometer *float64) error {
	return m.setStatus(ctx, id, from, to, odometer)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

// ---- drivers ---------------------------------------------------------------

type mockDriverRepo struct {
	create    func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	list      func(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error)
	update    func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	setStatus func(ctx context.Context, id uuid.UUID, from, to domain.DriverStatus) error
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	return m.create(ctx, driver)
}
func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) List(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error) {
	return m.list(ctx, filter)
}
func (m *mockDriverRepo) Update(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	return m.update(ctx, driver)
}
func (m *mockDriverRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.DriverStatus) error {
	return m.setStatus(ctx, id, from, to)
}
func (m *mockDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.DriverRepo = (*mockDriverRepo)(nil)

// ---- stops -----------------------------------------------------------------

type mockStopRepo struct {
	create       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	getByID      func(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	update       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	delete       func(ctx context.Context, tripID, stopID uuid.UUID) error
}

func (m *mockStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, stop)
}
func (m *mockStopRepo) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	return m.getByID(ctx, tripID, stopID)
}
func (m *mockStopRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, stop)
}
func (m *mockStopRepo) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	return m.delete(ctx, tripID, stopID)
}

var _ repo.StopRepo = (*mockStopRepo)(nil)

// ---- tags ------------------------------------------------------------------

type mockTagRepo struct {
	upsert         func(ctx context.Context, name, slug string) (domain.Tag, error)
	list           func(ctx context.Context, prefix string) ([]domain.Tag, error)
	listPaged      func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
	addToTrip      func(ctx context.Context, tripID, tagID uuid.UUID) error
	removeFromTrip func(ctx context.Context, tripID uuid.UUID, slug string) error
	listByTrip     func(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error)
}

func (m *mockTagRepo) Upsert(ctx context.Context, name, slug string) (domain.Tag, error) {
	return m.upsert(ctx, name, slug)
}
func (m *mockTagRepo) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	return m.list(ctx, prefix)
}
func (m *mockTagRepo) ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.listPaged(ctx, prefix, p)
}
func (m *mockTagRepo) AddToTrip(ctx context.Context, tripID, tagID uuid.UUID) error {
	return m.addToTrip(ctx, tripID, tagID)
}
func (m *mockTagRepo) RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error {
	return m.removeFromTrip(ctx, tripID, slug)
}
func (m *mockTagRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error) {
	return m.listByTrip(ctx, tripID)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

// ---- maintenance -----------------------------------------------------------

type mockMaintenanceRepo struct {
	create           func(ctx context.Context, log domain.MaintenanceLog) (domain.MaintenanceLog, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)
	list             func(ctx context.Context) ([]domain.MaintenanceLog, error)
	setStatus        func(ctx context.Context, id uuid.UUID, from, to domain.MaintenanceStatus) (domain.MaintenanceLog, error)
	hasOpenByVehicle func(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, log domain.MaintenanceLog) (domain.MaintenanceLog, error) {
	return m.create(ctx, log)
}
func (m *mockMaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	return m.getByID(ctx, id)
}
func (m *mockMaintenanceRepo) List(ctx context.Context) ([]domain.MaintenanceLog, error) {
	return m.list(ctx)
}
func (m *mockMaintenanceRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.MaintenanceStatus) (domain.MaintenanceLog, error) {
	return m.setStatus(ctx, id, from, to)
}
func (m *mockMaintenanceRepo) HasOpenByVehicle(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	if m.hasOpenByVehicle != nil {
		return m.hasOpenByVehicle(ctx, vehicleID)
	}
	return false, nil
}

var _ repo.MaintenanceRepo = (*mockMaintenanceRepo)(nil)

// ---- users -----------------------------------------------------------------

type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- transaction runner ----------------------------------------------------

// mockTx satisfies service.TxRunner by invoking fn directly with the repos
// it was built with. Atomicity is the real TxManager's concern; these tests
// only assert which writes the services attempt.
type mockTx struct {
	repos repo.Repos
}

func (m *mockTx) InTx(_ context.Context, fn func(r repo.Repos) error) error {
	return fn(m.repos)
}

var _ service.TxRunner = (*mockTx)(nil)

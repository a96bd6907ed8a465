package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/handler"
	"github.com/fleetflow/backend/internal/repo"
	"github.com/fleetflow/backend/internal/service"
)

// Function-field test doubles for the Servicer interfaces, mirroring the
// mock style of the service package. Unset fields fail loudly if called.

type mockTripService struct {
	create   func(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list     func(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error)
	patch    func(ctx context.Context, id uuid.UUID, cmd service.PatchTripCommand) (domain.Trip, error)
	dispatch func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	complete func(ctx context.Context, id uuid.UUID, overrides domain.CompleteOverrides) (domain.Trip, error)
	cancel   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripService) Create(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error) {
	return m.create(ctx, cmd)
}
func (m *mockTripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripService) List(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error) {
	return m.list(ctx, filter)
}
func (m *mockTripService) Patch(ctx context.Context, id uuid.UUID, cmd service.PatchTripCommand) (domain.Trip, error) {
	return m.patch(ctx, id, cmd)
}
func (m *mockTripService) Dispatch(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.dispatch(ctx, id)
}
func (m *mockTripService) Complete(ctx context.Context, id uuid.UUID, overrides domain.CompleteOverrides) (domain.Trip, error) {
	return m.complete(ctx, id, overrides)
}
func (m *mockTripService) Cancel(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.cancel(ctx, id)
}

type mockStopService struct {
	create       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	getByID      func(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	update       func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	delete       func(ctx context.Context, tripID, stopID uuid.UUID) error
}

func (m *mockStopService) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, stop)
}
func (m *mockStopService) GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error) {
	return m.getByID(ctx, tripID, stopID)
}
func (m *mockStopService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockStopService) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, stop)
}
func (m *mockStopService) Delete(ctx context.Context, tripID, stopID uuid.UUID) error {
	return m.delete(ctx, tripID, stopID)
}

type mockTagService struct {
	listPaged      func(ctx context.Context, prefix string, page domain.PaginationParams) ([]domain.Tag, int64, error)
	addToTrip      func(ctx context.Context, tripID uuid.UUID, name string) (domain.Tag, error)
	removeFromTrip func(ctx context.Context, tripID uuid.UUID, slug string) error
	listByTrip     func(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error)
}

func (m *mockTagService) ListPaged(ctx context.Context, prefix string, page domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.listPaged(ctx, prefix, page)
}
func (m *mockTagService) AddToTrip(ctx context.Context, tripID uuid.UUID, name string) (domain.Tag, error) {
	return m.addToTrip(ctx, tripID, name)
}
func (m *mockTagService) RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error {
	return m.removeFromTrip(ctx, tripID, slug)
}
func (m *mockTagService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error) {
	return m.listByTrip(ctx, tripID)
}

type mockVehicleService struct {
	create    func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list      func(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update    func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	setStatus func(ctx context.Context, id uuid.UUID, to domain.VehicleStatus) (domain.Vehicle, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleService) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, vehicle)
}
func (m *mockVehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleService) List(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.list(ctx, filter, page)
}
func (m *mockVehicleService) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, vehicle)
}
func (m *mockVehicleService) SetStatus(ctx context.Context, id uuid.UUID, to domain.VehicleStatus) (domain.Vehicle, error) {
	return m.setStatus(ctx, id, to)
}
func (m *mockVehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockDriverService struct {
	create    func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	list      func(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error)
	update    func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	setStatus func(ctx context.Context, id uuid.UUID, to domain.DriverStatus) (domain.Driver, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDriverService) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	return m.create(ctx, driver)
}
func (m *mockDriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverService) List(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error) {
	return m.list(ctx, filter)
}
func (m *mockDriverService) Update(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	return m.update(ctx, driver)
}
func (m *mockDriverService) SetStatus(ctx context.Context, id uuid.UUID, to domain.DriverStatus) (domain.Driver, error) {
	return m.setStatus(ctx, id, to)
}
func (m *mockDriverService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockMaintenanceService struct {
	create   func(ctx context.Context, cmd service.CreateMaintenanceCommand) (domain.MaintenanceLog, error)
	complete func(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)
	list     func(ctx context.Context) ([]domain.MaintenanceLog, error)
}

func (m *mockMaintenanceService) Create(ctx context.Context, cmd service.CreateMaintenanceCommand) (domain.MaintenanceLog, error) {
	return m.create(ctx, cmd)
}
func (m *mockMaintenanceService) Complete(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	return m.complete(ctx, id)
}
func (m *mockMaintenanceService) GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error) {
	return m.getByID(ctx, id)
}
func (m *mockMaintenanceService) List(ctx context.Context) ([]domain.MaintenanceLog, error) {
	return m.list(ctx)
}

type mockFuelService struct {
	create func(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error)
	list   func(ctx context.Context) ([]domain.FuelLog, error)
}

func (m *mockFuelService) Create(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error) {
	return m.create(ctx, log)
}
func (m *mockFuelService) List(ctx context.Context) ([]domain.FuelLog, error) {
	return m.list(ctx)
}

type mockExpenseService struct {
	create func(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	list   func(ctx context.Context) ([]domain.Expense, error)
}

func (m *mockExpenseService) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	return m.create(ctx, expense)
}
func (m *mockExpenseService) List(ctx context.Context) ([]domain.Expense, error) {
	return m.list(ctx)
}

type mockAuthService struct {
	register func(ctx context.Context, cmd service.RegisterCommand) (domain.User, string, error)
	login    func(ctx context.Context, email, password string) (domain.User, string, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, cmd service.RegisterCommand) (domain.User, string, error) {
	return m.register(ctx, cmd)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

// serverMocks collects one mock per Servicer so tests only fill in the
// methods they exercise.
type serverMocks struct {
	trips       *mockTripService
	stops       *mockStopService
	tags        *mockTagService
	vehicles    *mockVehicleService
	drivers     *mockDriverService
	maintenance *mockMaintenanceService
	fuel        *mockFuelService
	expenses    *mockExpenseService
	auth        *mockAuthService
}

// newTestServer mounts the full route tree over the given mocks with a
// pass-through auth middleware, since middleware behavior is tested in its
// own package.
func newTestServer(m serverMocks) http.Handler {
	if m.trips == nil {
		m.trips = &mockTripService{}
	}
	if m.stops == nil {
		m.stops = &mockStopService{}
	}
	if m.tags == nil {
		m.tags = &mockTagService{}
	}
	if m.vehicles == nil {
		m.vehicles = &mockVehicleService{}
	}
	if m.drivers == nil {
		m.drivers = &mockDriverService{}
	}
	if m.maintenance == nil {
		m.maintenance = &mockMaintenanceService{}
	}
	if m.fuel == nil {
		m.fuel = &mockFuelService{}
	}
	if m.expenses == nil {
		m.expenses = &mockExpenseService{}
	}
	if m.auth == nil {
		m.auth = &mockAuthService{}
	}

	srv := handler.NewServer(
		m.trips, m.stops, m.tags,
		m.vehicles, m.drivers,
		m.maintenance, m.fuel, m.expenses, m.auth,
	)
	passthrough := func(next http.Handler) http.Handler { return next }
	return srv.Routes(passthrough)
}

// doJSON performs a request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeErrorCode pulls the machine-readable code out of an error envelope.
func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

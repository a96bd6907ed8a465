package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
	"github.com/fleetflow/backend/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func availableVehicle(id uuid.UUID) domain.Vehicle {
	return domain.Vehicle{
		ID:           id,
		Name:         "Truck 12",
		LicensePlate: "FL-0012",
		MaxCapacity:  20000,
		Odometer:     45000,
		Status:       domain.VehicleAvailable,
	}
}

func availableDriver(id uuid.UUID) domain.Driver {
	return domain.Driver{
		ID:            id,
		Name:          "Dana Okafor",
		LicenseNumber: "CDL-88123",
		LicenseExpiry: time.Now().UTC().AddDate(2, 0, 0),
		Status:        domain.DriverAvailable,
	}
}

func draftTrip(vehicleID, driverID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:                uuid.New(),
		VehicleID:         vehicleID,
		DriverID:          driverID,
		Origin:            "Rotterdam",
		Destination:       "Hamburg",
		CargoWeight:       12500,
		EstimatedFuelCost: 410,
		Distance:          480,
		Status:            domain.TripDraft,
	}
}

// tripRig bundles the mocks behind a TripService so tests can script the
// repos and record the status writes the service attempts.
type tripRig struct {
	trips    *mockTripRepo
	vehicles *mockVehicleRepo
	drivers  *mockDriverRepo
	svc      *service.TripService

	tripWrites    []domain.TripWrite
	vehicleWrites []string
	driverWrites  []string
}

func newTripRig(trip domain.Trip, vehicle domain.Vehicle, driver domain.Driver) *tripRig {
	rig := &tripRig{}
	rig.trips = &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
		updateStatus: func(_ context.Context, id uuid.UUID, write domain.TripWrite) (domain.Trip, error) {
			rig.tripWrites = append(rig.tripWrites, write)
			updated := trip
			updated.Status = write.To
			if write.CompletedAt != nil {
				updated.CompletedAt = write.CompletedAt
			}
			if write.Distance != nil {
				updated.Distance = *write.Distance
			}
			if write.ActualFuelCost != nil {
				updated.ActualFuelCost = *write.ActualFuelCost
			}
			return updated, nil
		},
	}
	rig.vehicles = &mockVehicleRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Vehicle, error) {
			if id != vehicle.ID {
				return domain.Vehicle{}, domain.ErrNotFound
			}
			return vehicle, nil
		},
		setStatus: func(_ context.Context, _ uuid.UUID, from, to domain.VehicleStatus, _ *float64) error {
			rig.vehicleWrites = append(rig.vehicleWrites, fmt.Sprintf("%s->%s", from, to))
			return nil
		},
	}
	rig.drivers = &mockDriverRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Driver, error) {
			if id != driver.ID {
				return domain.Driver{}, domain.ErrNotFound
			}
			return driver, nil
		},
		setStatus: func(_ context.Context, _ uuid.UUID, from, to domain.DriverStatus) error {
			rig.driverWrites = append(rig.driverWrites, fmt.Sprintf("%s->%s", from, to))
			return nil
		},
	}
	tx := &mockTx{repos: repo.Repos{Trips: rig.trips, Vehicles: rig.vehicles, Drivers: rig.drivers}}
	rig.svc = service.NewTripService(rig.trips, rig.vehicles, rig.drivers, tx)
	return rig
}

func requireEligibilityReason(t *testing.T, err error, want domain.EligibilityReason) {
	t.Helper()
	var eErr *domain.EligibilityError
	require.ErrorAs(t, err, &eErr)
	assert.Equal(t, want, eErr.Reason)
}

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_OK(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())

	var inserted domain.Trip
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			inserted = trip
			trip.ID = uuid.New()
			trip.Status = domain.TripDraft
			return trip, nil
		},
	}
	vehicles := &mockVehicleRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Vehicle, error) { return vehicle, nil },
	}
	drivers := &mockDriverRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Driver, error) { return driver, nil },
	}
	svc := service.NewTripService(trips, vehicles, drivers, &mockTx{})

	got, err := svc.Create(context.Background(), service.CreateTripCommand{
		VehicleID:   vehicle.ID,
		DriverID:    driver.ID,
		Origin:      "Rotterdam",
		Destination: "Hamburg",
		CargoWeight: 12500,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TripDraft, got.Status)
	assert.Equal(t, "Rotterdam", inserted.Origin)
	assert.Equal(t, vehicle.ID, inserted.VehicleID)
}

func TestTripService_Create_MissingFields(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, &mockVehicleRepo{}, &mockDriverRepo{}, &mockTx{})

	_, err := svc.Create(context.Background(), service.CreateTripCommand{
		VehicleID: uuid.New(),
		DriverID:  uuid.New(),
		Origin:    "  ",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_IneligibleDriver(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	driver.Status = domain.DriverSuspended

	created := false
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			created = true
			return trip, nil
		},
	}
	vehicles := &mockVehicleRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Vehicle, error) { return vehicle, nil },
	}
	drivers := &mockDriverRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Driver, error) { return driver, nil },
	}
	svc := service.NewTripService(trips, vehicles, drivers, &mockTx{})

	_, err := svc.Create(context.Background(), service.CreateTripCommand{
		VehicleID:   vehicle.ID,
		DriverID:    driver.ID,
		Origin:      "Rotterdam",
		Destination: "Hamburg",
	})
	requireEligibilityReason(t, err, domain.ReasonDriverSuspended)
	assert.False(t, created, "guard failure must abort before any write")
}

func TestTripService_Create_VehicleNotFound(t *testing.T) {
	vehicles := &mockVehicleRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Vehicle, error) {
			return domain.Vehicle{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(&mockTripRepo{}, vehicles, &mockDriverRepo{}, &mockTx{})

	_, err := svc.Create(context.Background(), service.CreateTripCommand{
		VehicleID:   uuid.New(),
		DriverID:    uuid.New(),
		Origin:      "Rotterdam",
		Destination: "Hamburg",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Dispatch --------------------------------------------------------------

func TestTripService_Dispatch_OK(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)

	got, err := rig.svc.Dispatch(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripDispatched, got.Status)

	require.Len(t, rig.tripWrites, 1)
	assert.Equal(t, domain.TripDraft, rig.tripWrites[0].From)
	assert.Equal(t, domain.TripDispatched, rig.tripWrites[0].To)
	assert.Equal(t, []string{"AVAILABLE->ON_TRIP"}, rig.vehicleWrites)
	assert.Equal(t, []string{"AVAILABLE->ON_DUTY"}, rig.driverWrites)
}

func TestTripService_Dispatch_NotDraft(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripCompleted
	rig := newTripRig(trip, vehicle, driver)

	_, err := rig.svc.Dispatch(context.Background(), trip.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, rig.tripWrites)
}

func TestTripService_Dispatch_RevalidatesEligibility(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	vehicle.Status = domain.VehicleInShop
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)

	_, err := rig.svc.Dispatch(context.Background(), trip.ID)
	requireEligibilityReason(t, err, domain.ReasonVehicleUnavailable)
	assert.Empty(t, rig.tripWrites, "guard failure must abort before any write")
}

func TestTripService_Dispatch_VehicleRacedAway(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)
	rig.vehicles.setStatus = func(_ context.Context, _ uuid.UUID, _, _ domain.VehicleStatus, _ *float64) error {
		return domain.ErrConflict
	}

	_, err := rig.svc.Dispatch(context.Background(), trip.ID)
	requireEligibilityReason(t, err, domain.ReasonVehicleUnavailable)
	assert.Empty(t, rig.driverWrites, "driver write must not follow a failed vehicle swap")
}

func TestTripService_Dispatch_DriverRacedAway(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)
	rig.drivers.setStatus = func(_ context.Context, _ uuid.UUID, _, _ domain.DriverStatus) error {
		return domain.ErrConflict
	}

	_, err := rig.svc.Dispatch(context.Background(), trip.ID)
	requireEligibilityReason(t, err, domain.ReasonDriverUnavailable)
}

// ---- Complete --------------------------------------------------------------

func TestTripService_Complete_Defaults(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	vehicle.Status = domain.VehicleOnTrip
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripDispatched
	rig := newTripRig(trip, vehicle, driver)

	odometerWrite := new(float64)
	rig.vehicles.setStatus = func(_ context.Context, _ uuid.UUID, from, to domain.VehicleStatus, odo *float64) error {
		rig.vehicleWrites = append(rig.vehicleWrites, fmt.Sprintf("%s->%s", from, to))
		odometerWrite = odo
		return nil
	}

	got, err := rig.svc.Complete(context.Background(), trip.ID, domain.CompleteOverrides{})
	require.NoError(t, err)
	assert.Equal(t, domain.TripCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, trip.Distance, got.Distance)
	assert.Equal(t, trip.EstimatedFuelCost, got.ActualFuelCost)

	assert.Equal(t, []string{"ON_TRIP->AVAILABLE"}, rig.vehicleWrites)
	assert.Equal(t, []string{"ON_DUTY->AVAILABLE"}, rig.driverWrites)
	assert.Nil(t, odometerWrite, "no final reading supplied, odometer must stay put")
}

func TestTripService_Complete_Overrides(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	vehicle.Status = domain.VehicleOnTrip
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripDispatched
	rig := newTripRig(trip, vehicle, driver)

	var odometerWrite *float64
	rig.vehicles.setStatus = func(_ context.Context, _ uuid.UUID, _, _ domain.VehicleStatus, odo *float64) error {
		odometerWrite = odo
		return nil
	}

	final := vehicle.Odometer + 480
	actual := 395.0
	got, err := rig.svc.Complete(context.Background(), trip.ID, domain.CompleteOverrides{
		FinalOdometer:  &final,
		ActualFuelCost: &actual,
	})
	require.NoError(t, err)
	assert.Equal(t, actual, got.ActualFuelCost)
	require.NotNil(t, odometerWrite)
	assert.Equal(t, final, *odometerWrite)
}

func TestTripService_Complete_OdometerBelowCurrent(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	vehicle.Status = domain.VehicleOnTrip
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripDispatched
	rig := newTripRig(trip, vehicle, driver)

	low := vehicle.Odometer - 1
	_, err := rig.svc.Complete(context.Background(), trip.ID, domain.CompleteOverrides{FinalOdometer: &low})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, rig.tripWrites)
}

func TestTripService_Complete_NotDispatched(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)

	_, err := rig.svc.Complete(context.Background(), trip.ID, domain.CompleteOverrides{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ---- Cancel ----------------------------------------------------------------

func TestTripService_Cancel_Draft_NoResourceWrites(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	rig := newTripRig(trip, vehicle, driver)

	got, err := rig.svc.Cancel(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripCancelled, got.Status)
	assert.Empty(t, rig.vehicleWrites, "a draft trip never claimed its vehicle")
	assert.Empty(t, rig.driverWrites, "a draft trip never claimed its driver")
}

func TestTripService_Cancel_Dispatched_ReleasesResources(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	vehicle.Status = domain.VehicleOnTrip
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripDispatched
	rig := newTripRig(trip, vehicle, driver)

	got, err := rig.svc.Cancel(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TripCancelled, got.Status)
	assert.Equal(t, []string{"ON_TRIP->AVAILABLE"}, rig.vehicleWrites)
	assert.Equal(t, []string{"ON_DUTY->AVAILABLE"}, rig.driverWrites)
}

func TestTripService_Cancel_Terminal(t *testing.T) {
	vehicle := availableVehicle(uuid.New())
	driver := availableDriver(uuid.New())
	trip := draftTrip(vehicle.ID, driver.ID)
	trip.Status = domain.TripCancelled
	rig := newTripRig(trip, vehicle, driver)

	_, err := rig.svc.Cancel(context.Background(), trip.ID)
	requireEligibilityReason(t, err, domain.ReasonAlreadyTerminal)
}

// ---- Patch -----------------------------------------------------------------

func TestTripService_Patch_OK(t *testing.T) {
	trip := draftTrip(uuid.New(), uuid.New())
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		updateFields: func(_ context.Context, updated domain.Trip) (domain.Trip, error) {
			return updated, nil
		},
	}
	svc := service.NewTripService(trips, &mockVehicleRepo{}, &mockDriverRepo{}, &mockTx{})

	dest := "Bremen"
	revenue := 2100.0
	got, err := svc.Patch(context.Background(), trip.ID, service.PatchTripCommand{
		Destination: &dest,
		Revenue:     &revenue,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bremen", got.Destination)
	assert.Equal(t, 2100.0, got.Revenue)
	assert.Equal(t, trip.Origin, got.Origin, "unset fields stay put")
}

func TestTripService_Patch_TerminalTrip(t *testing.T) {
	trip := draftTrip(uuid.New(), uuid.New())
	trip.Status = domain.TripCompleted
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(trips, &mockVehicleRepo{}, &mockDriverRepo{}, &mockTx{})

	dest := "Bremen"
	_, err := svc.Patch(context.Background(), trip.ID, service.PatchTripCommand{Destination: &dest})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ---- List ------------------------------------------------------------------

func TestTripService_List_NilBecomesEmpty(t *testing.T) {
	trips := &mockTripRepo{
		list: func(_ context.Context, _ repo.TripFilter) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(trips, &mockVehicleRepo{}, &mockDriverRepo{}, &mockTx{})

	got, err := svc.List(context.Background(), repo.TripFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_List_Error(t *testing.T) {
	boom := errors.New("boom")
	trips := &mockTripRepo{
		list: func(_ context.Context, _ repo.TripFilter) ([]domain.Trip, error) { return nil, boom },
	}
	svc := service.NewTripService(trips, &mockVehicleRepo{}, &mockDriverRepo{}, &mockTx{})

	_, err := svc.List(context.Background(), repo.TripFilter{})
	assert.ErrorIs(t, err, boom)
}

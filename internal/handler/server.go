// Package handler implements the HTTP handlers for the FleetFlow API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, vehicle.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
	"github.com/fleetflow/backend/internal/service"
	"github.com/fleetflow/backend/spec"
)

// The service interfaces are defined here, in the consumer package, following
// the Go convention: "accept interfaces, return concrete types". Handler
// tests inject mocks without touching the database or service layer.

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, cmd service.CreateTripCommand) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, filter repo.TripFilter) ([]domain.Trip, error)
	Patch(ctx context.Context, id uuid.UUID, cmd service.PatchTripCommand) (domain.Trip, error)
	Dispatch(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Complete(ctx context.Context, id uuid.UUID, overrides domain.CompleteOverrides) (domain.Trip, error)
	Cancel(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// VehicleServicer defines the business operations the vehicle handlers depend on.
type VehicleServicer interface {
	Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	List(ctx context.Context, filter repo.VehicleFilter, page domain.PaginationParams) ([]domain.Vehicle, int64, error)
	Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	SetStatus(ctx context.Context, id uuid.UUID, to domain.VehicleStatus) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DriverServicer defines the business operations the driver handlers depend on.
type DriverServicer interface {
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	List(ctx context.Context, filter repo.DriverFilter) ([]domain.Driver, error)
	Update(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	SetStatus(ctx context.Context, id uuid.UUID, to domain.DriverStatus) (domain.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StopServicer defines the operations the route-stop handlers depend on.
type StopServicer interface {
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	GetByID(ctx context.Context, tripID, stopID uuid.UUID) (domain.Stop, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, tripID, stopID uuid.UUID) error
}

// TagServicer defines the operations the tag handlers depend on.
type TagServicer interface {
	ListPaged(ctx context.Context, prefix string, page domain.PaginationParams) ([]domain.Tag, int64, error)
	AddToTrip(ctx context.Context, tripID uuid.UUID, name string) (domain.Tag, error)
	RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error)
}

// MaintenanceServicer defines the operations the maintenance handlers depend on.
type MaintenanceServicer interface {
	Create(ctx context.Context, cmd service.CreateMaintenanceCommand) (domain.MaintenanceLog, error)
	Complete(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.MaintenanceLog, error)
	List(ctx context.Context) ([]domain.MaintenanceLog, error)
}

// FuelServicer defines the operations the fuel handlers depend on.
type FuelServicer interface {
	Create(ctx context.Context, log domain.FuelLog) (domain.FuelLog, error)
	List(ctx context.Context) ([]domain.FuelLog, error)
}

// ExpenseServicer defines the operations the expense handlers depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	List(ctx context.Context) ([]domain.Expense, error)
}

// AuthServicer defines the operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// Server holds the handlers' dependencies. Methods live in domain-specific
// files but all operate on this struct.
type Server struct {
	trips       TripServicer
	stops       StopServicer
	tags        TagServicer
	vehicles    VehicleServicer
	drivers     DriverServicer
	maintenance MaintenanceServicer
	fuel        FuelServicer
	expenses    ExpenseServicer
	auth        AuthServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	stops StopServicer,
	tags TagServicer,
	vehicles VehicleServicer,
	drivers DriverServicer,
	maintenance MaintenanceServicer,
	fuel FuelServicer,
	expenses ExpenseServicer,
	auth AuthServicer,
) *Server {
	return &Server{
		trips:       trips,
		stops:       stops,
		tags:        tags,
		vehicles:    vehicles,
		drivers:     drivers,
		maintenance: maintenance,
		fuel:        fuel,
		expenses:    expenses,
		auth:        auth,
	}
}

// Routes mounts every endpoint on a fresh chi router. requireAuth guards
// everything under /api except registration and login; the health check
// stays open for load balancers.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", s.Me)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", s.CreateTrip)
				r.Get("/", s.ListTrips)
				r.Get("/{id}", s.GetTrip)
				r.Patch("/{id}", s.PatchTrip)
				r.Post("/{id}/dispatch", s.DispatchTrip)
				r.Post("/{id}/complete", s.CompleteTrip)
				r.Post("/{id}/cancel", s.CancelTrip)

				r.Route("/{id}/stops", func(r chi.Router) {
					r.Post("/", s.CreateStop)
					r.Get("/", s.ListStops)
					r.Get("/{stopID}", s.GetStop)
					r.Put("/{stopID}", s.UpdateStop)
					r.Delete("/{stopID}", s.DeleteStop)
				})

				r.Route("/{id}/tags", func(r chi.Router) {
					r.Post("/", s.AddTripTag)
					r.Get("/", s.ListTripTags)
					r.Delete("/{slug}", s.RemoveTripTag)
				})
			})

			r.Get("/tags", s.ListTags)

			r.Route("/vehicles", func(r chi.Router) {
				r.Post("/", s.CreateVehicle)
				r.Get("/", s.ListVehicles)
				r.Get("/{id}", s.GetVehicle)
				r.Put("/{id}", s.UpdateVehicle)
				r.Put("/{id}/status", s.SetVehicleStatus)
				r.Delete("/{id}", s.DeleteVehicle)
			})

			r.Route("/drivers", func(r chi.Router) {
				r.Post("/", s.CreateDriver)
				r.Get("/", s.ListDrivers)
				r.Get("/{id}", s.GetDriver)
				r.Put("/{id}", s.UpdateDriver)
				r.Put("/{id}/status", s.SetDriverStatus)
				r.Delete("/{id}", s.DeleteDriver)
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Post("/", s.CreateMaintenance)
				r.Get("/", s.ListMaintenance)
				r.Get("/{id}", s.GetMaintenance)
				r.Post("/{id}/complete", s.CompleteMaintenance)
			})

			r.Route("/fuel", func(r chi.Router) {
				r.Post("/", s.CreateFuelLog)
				r.Get("/", s.ListFuelLogs)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.CreateExpense)
				r.Get("/", s.ListExpenses)
			})
		})
	})

	return r
}

// pathID parses the {id} chi URL parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

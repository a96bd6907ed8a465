package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles the repositories a transactional unit of work can touch.
// All of them are bound to the same connection, so every write issued through
// them commits or rolls back together.
type Repos struct {
	Trips       TripRepo
	Vehicles    VehicleRepo
	Drivers     DriverRepo
	Maintenance MaintenanceRepo
}

// beginner is satisfied by *pgxpool.Pool and by pgx.Tx. When a pgx.Tx begins
// a transaction it opens a savepoint, so integration tests can hand the
// manager a rollback-isolated test transaction and everything still nests.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager coordinates multi-record writes: it owns the transaction
// boundary that makes a trip transition's trip/vehicle/driver writes one
// atomic unit. Services never see pgx.Tx — they receive a Repos bound to the
// transaction and return an error to abort.
type TxManager struct {
	db beginner
}

// NewTxManager constructs a TxManager on top of a pool (production) or an
// open transaction (tests).
func NewTxManager(db beginner) *TxManager {
	return &TxManager{db: db}
}

// InTx runs fn inside a single database transaction. The transaction commits
// only when fn returns nil; any error rolls back every write fn issued, so a
// guard failure can never leave a partial trip/vehicle/driver mutation behind.
func (m *TxManager) InTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxManager.InTx: begin: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	repos := Repos{
		Trips:       NewTripRepo(tx),
		Vehicles:    NewVehicleRepo(tx),
		Drivers:     NewDriverRepo(tx),
		Maintenance: NewMaintenanceRepo(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxManager.InTx: commit: %w", err)
	}
	return nil
}

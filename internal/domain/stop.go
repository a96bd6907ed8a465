package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stop is a scheduled pickup or delivery point on a trip's route, ordered by
// Seq. ArrivedAt and DepartedAt are nil until the driver reports reaching or
// leaving the stop.
type Stop struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	Seq        int
	Name       string
	Location   string
	ArrivedAt  *time.Time
	DepartedAt *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

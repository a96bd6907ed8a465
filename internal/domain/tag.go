package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-defined label applied to trips, e.g. "hazmat" or
// "refrigerated". Tags are global rather than owned by any single trip.
// Identity is determined by Slug, which is always lowercase and hyphenated;
// Name preserves the casing supplied by the first user to create the tag.
type Tag struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/repo"
)

// TagService implements business logic for trip labels. Its primary
// responsibility is slug normalization: all tag identity is determined by
// slug, which is always lowercase and hyphenated.
type TagService struct {
	trips repo.TripRepo
	tags  repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided repos.
func NewTagService(trips repo.TripRepo, tags repo.TagRepo) *TagService {
	return &TagService{trips: trips, tags: tags}
}

// List returns all tags whose slug starts with the normalized prefix,
// ordered by slug. Always returns a non-nil slice.
func (s *TagService) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx, slugify(prefix))
	if err != nil {
		return nil, fmt.Errorf("service.TagService.List: %w", err)
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

// ListPaged returns one page of tags matching the normalized slug prefix
// plus the total match count.
func (s *TagService) ListPaged(ctx context.Context, prefix string, page domain.PaginationParams) ([]domain.Tag, int64, error) {
	tags, total, err := s.tags.ListPaged(ctx, slugify(prefix), page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TagService.ListPaged: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, total, nil
}

// AddToTrip upserts a tag by name and links it to the given trip.
// Returns domain.ErrValidation if name normalizes to an empty slug and
// domain.ErrNotFound if the trip does not exist.
func (s *TagService) AddToTrip(ctx context.Context, tripID uuid.UUID, name string) (domain.Tag, error) {
	slug := slugify(name)
	if slug == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.AddToTrip: %w", err)
	}
	tag, err := s.tags.Upsert(ctx, strings.TrimSpace(name), slug)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.AddToTrip: %w", err)
	}
	if err := s.tags.AddToTrip(ctx, tripID, tag.ID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.AddToTrip: %w", err)
	}
	return tag, nil
}

// RemoveFromTrip unlinks a tag from a trip by slug. The tag row itself is
// kept — tags are global and may be linked to other trips.
// Returns domain.ErrNotFound if the tag is not linked to the trip.
func (s *TagService) RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error {
	if err := s.tags.RemoveFromTrip(ctx, tripID, slugify(slug)); err != nil {
		return fmt.Errorf("service.TagService.RemoveFromTrip: %w", err)
	}
	return nil
}

// ListByTrip returns all tags linked to a trip, ordered by slug.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TagService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Tag, error) {
	tags, err := s.tags.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.ListByTrip: %w", err)
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

// slugify normalizes a tag name into its identity: lowercase, runs of
// whitespace and underscores collapsed to single hyphens, anything outside
// [a-z0-9-] dropped.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

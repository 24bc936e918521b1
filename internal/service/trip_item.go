package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

// ItemFilter narrows a trip item listing. Day takes precedence over ScheduledOnly.
type ItemFilter struct {
	ScheduledOnly bool
	Day           *int
}

// TripItemService implements business logic for TripItem operations.
// It holds the trips repo because every item operation first verifies that
// the parent trip belongs to the caller.
type TripItemService struct {
	trips repo.TripRepo
	items repo.TripItemRepo
}

// NewTripItemService constructs a TripItemService backed by the provided repos.
func NewTripItemService(trips repo.TripRepo, items repo.TripItemRepo) *TripItemService {
	return &TripItemService{trips: trips, items: items}
}

// Create validates the item, verifies the parent trip is the user's, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the parent trip does not exist for the user.
func (s *TripItemService) Create(ctx context.Context, userID uuid.UUID, item domain.TripItem) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, userID, item.TripID); err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: %w", err)
	}
	item, err := normalizeItem(item)
	if err != nil {
		return domain.TripItem{}, err
	}
	result, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Create: %w", err)
	}
	return result, nil
}

// CreateFromPlace attaches a searched place to a trip as an unscheduled item.
// When itemType is empty it is derived from the place's category.
func (s *TripItemService) CreateFromPlace(ctx context.Context, userID, tripID uuid.UUID, p domain.Place, itemType domain.ItemType) (domain.TripItem, error) {
	if itemType == "" {
		itemType = domain.ItemTypeForCategory(p.Category)
	}
	item := domain.TripItem{
		TripID:        tripID,
		Type:          itemType,
		Title:         p.Name,
		Location:      p.Address,
		PlaceID:       p.PlaceID,
		AIDescription: p.Description,
		Website:       p.WebsiteURI,
		ImageURL:      p.Image,
	}
	if p.Rating > 0 {
		r := p.Rating
		item.Rating = &r
	}
	return s.Create(ctx, userID, item)
}

// List returns the trip's items ordered by day then time, unscheduled last.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripItemService) List(ctx context.Context, userID, tripID uuid.UUID, f ItemFilter) ([]domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return nil, fmt.Errorf("service.TripItemService.List: %w", err)
	}

	var (
		items []domain.TripItem
		err   error
	)
	if f.ScheduledOnly || f.Day != nil {
		items, err = s.items.ListScheduled(ctx, tripID)
	} else {
		items, err = s.items.ListByTripID(ctx, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("service.TripItemService.List: %w", err)
	}

	if f.Day != nil {
		day := *f.Day
		filtered := items[:0]
		for _, it := range items {
			if it.DayNumber != nil && *it.DayNumber == day {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	if items == nil {
		return []domain.TripItem{}, nil
	}
	return items, nil
}

// Update applies a partial update to an item. Scheduling fields are not touched.
func (s *TripItemService) Update(ctx context.Context, userID, tripID, itemID uuid.UUID, patch domain.TripItemPatch) (domain.TripItem, error) {
	current, err := s.owned(ctx, userID, tripID, itemID)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Update: %w", err)
	}
	next, err := normalizeItem(current.Apply(patch))
	if err != nil {
		return domain.TripItem{}, err
	}
	result, err := s.items.Update(ctx, next)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Update: %w", err)
	}
	return result, nil
}

// Schedule assigns an item to a day of the trip at a wall-clock time ("HH:MM").
func (s *TripItemService) Schedule(ctx context.Context, userID, tripID, itemID uuid.UUID, day int, at string) (domain.TripItem, error) {
	current, err := s.owned(ctx, userID, tripID, itemID)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Schedule: %w", err)
	}
	current.DayNumber = &day
	current.ScheduledTime = &at
	next, err := normalizeItem(current)
	if err != nil {
		return domain.TripItem{}, err
	}
	result, err := s.items.Update(ctx, next)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Schedule: %w", err)
	}
	return result, nil
}

// Unschedule clears an item's day and time, returning it to the unscheduled pool.
func (s *TripItemService) Unschedule(ctx context.Context, userID, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	current, err := s.owned(ctx, userID, tripID, itemID)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Unschedule: %w", err)
	}
	current.DayNumber = nil
	current.ScheduledTime = nil
	result, err := s.items.Update(ctx, current)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("service.TripItemService.Unschedule: %w", err)
	}
	return result, nil
}

// Delete removes an item from one of the user's trips.
func (s *TripItemService) Delete(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripItemService.Delete: %w", err)
	}
	if err := s.items.Delete(ctx, tripID, itemID); err != nil {
		return fmt.Errorf("service.TripItemService.Delete: %w", err)
	}
	return nil
}

func (s *TripItemService) owned(ctx context.Context, userID, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return domain.TripItem{}, err
	}
	return s.items.GetByID(ctx, tripID, itemID)
}

// normalizeItem enforces business rules common to every item write and
// canonicalises the scheduled time to "HH:MM".
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Type must be a known item type.
//   - Day and time are set together; the day is at least 1.
func normalizeItem(it domain.TripItem) (domain.TripItem, error) {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return domain.TripItem{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !it.Type.Valid() {
		return domain.TripItem{}, fmt.Errorf("%w: unknown item type %q", domain.ErrValidation, it.Type)
	}
	if (it.DayNumber == nil) != (it.ScheduledTime == nil) {
		return domain.TripItem{}, fmt.Errorf("%w: day_number and scheduled_time must be set together", domain.ErrValidation)
	}
	if it.DayNumber != nil && *it.DayNumber < 1 {
		return domain.TripItem{}, fmt.Errorf("%w: day_number must be at least 1", domain.ErrValidation)
	}
	if it.ScheduledTime != nil {
		t, err := time.Parse(domain.ScheduledTimeLayout, strings.TrimSpace(*it.ScheduledTime))
		if err != nil {
			return domain.TripItem{}, fmt.Errorf("%w: scheduled_time must be HH:MM", domain.ErrValidation)
		}
		at := t.Format(domain.ScheduledTimeLayout)
		it.ScheduledTime = &at
	}
	if it.Rating != nil && (*it.Rating < 0 || *it.Rating > 5) {
		return domain.TripItem{}, fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
	}
	return it, nil
}

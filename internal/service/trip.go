// Package service contains the business logic for the Maple Planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

// TripService implements business logic for Trip operations.
// Every method is scoped to the calling user: another user's trip is
// indistinguishable from one that does not exist.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create fills in defaults for blank fields, validates, and persists a new trip.
// trip.UserID must be the caller.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = applyTripDefaults(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns one of the user's trips.
func (s *TripService) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all of the user's trips, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of the user's trips and the total number of trips.
func (s *TripService) ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListByUserPaged(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update applies a partial update to one of the user's trips.
// Only the fields present in patch change.
func (s *TripService) Update(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	current, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	next := current.Apply(patch)
	next.Interests = normalizeInterests(next.Interests)
	if err := validateTrip(next); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes one of the user's trips together with its items.
func (s *TripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func applyTripDefaults(t domain.Trip) domain.Trip {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = domain.DefaultTripTitle
	}
	t.Destination = strings.TrimSpace(t.Destination)
	if t.Destination == "" {
		t.Destination = domain.DefaultTripDestination
	}
	if t.Travelers == 0 {
		t.Travelers = domain.DefaultTravelers
	}
	if t.AccommodationType == "" {
		t.AccommodationType = domain.DefaultAccommodationType
	}
	if t.TransportationMode == "" {
		t.TransportationMode = domain.DefaultTransportationMode
	}
	if t.Status == "" {
		t.Status = domain.TripStatusDraft
	}
	if len(t.Itinerary) == 0 {
		t.Itinerary = json.RawMessage("[]")
	}
	t.Interests = normalizeInterests(t.Interests)
	return t
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(t domain.Trip) error {
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if t.EndDate.IsZero() {
		return fmt.Errorf("%w: end_date is required", domain.ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if t.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", domain.ErrValidation)
	}
	if t.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", domain.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, t.Status)
	}
	if len(t.Itinerary) > 0 && !json.Valid(t.Itinerary) {
		return fmt.Errorf("%w: itinerary must be valid JSON", domain.ErrValidation)
	}
	return nil
}

// normalizeInterests trims each interest, drops blanks, and removes
// case-insensitive duplicates while keeping the first spelling seen.
func normalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

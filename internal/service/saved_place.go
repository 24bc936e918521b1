package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

// SavedPlaceService manages the user's saved-item list.
type SavedPlaceService struct {
	repo repo.SavedPlaceRepo
}

// NewSavedPlaceService constructs a SavedPlaceService backed by the provided repo.
func NewSavedPlaceService(r repo.SavedPlaceRepo) *SavedPlaceService {
	return &SavedPlaceService{repo: r}
}

// List returns the user's saved places in the order they were added.
func (s *SavedPlaceService) List(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error) {
	ps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.SavedPlaceService.List: %w", err)
	}
	if ps == nil {
		return []domain.SavedPlace{}, nil
	}
	return ps, nil
}

// Add saves a place for the user. Name is required.
func (s *SavedPlaceService) Add(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.SavedPlace{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return domain.SavedPlace{}, fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
	}
	result, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.SavedPlace{}, fmt.Errorf("service.SavedPlaceService.Add: %w", err)
	}
	return result, nil
}

// Remove deletes one of the user's saved places.
func (s *SavedPlaceService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.SavedPlaceService.Remove: %w", err)
	}
	return nil
}

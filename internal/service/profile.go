package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

// ProfileService manages the caller's editable profile.
type ProfileService struct {
	users    repo.UserRepo
	profiles repo.ProfileRepo
}

// NewProfileService constructs a ProfileService backed by the provided repos.
func NewProfileService(users repo.UserRepo, profiles repo.ProfileRepo) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

// Get returns the user's profile, or domain.ErrNotFound if none was created.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return p, nil
}

// Upsert creates the profile on first use and otherwise changes only the
// fields present in patch. The email always mirrors the account's email.
func (s *ProfileService) Upsert(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Upsert: %w", err)
	}

	current, err := s.profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Upsert: %w", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		current = domain.Profile{ID: userID, Name: user.Name}
	}

	if patch.Name != nil {
		current.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.ProfilePicture != nil {
		current.ProfilePicture = strings.TrimSpace(*patch.ProfilePicture)
	}
	current.Email = user.Email

	result, err := s.profiles.Upsert(ctx, current)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Upsert: %w", err)
	}
	return result, nil
}

// Delete removes the user's profile. The account itself remains.
func (s *ProfileService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service.ProfileService.Delete: %w", err)
	}
	return nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/maple-planner/internal/domain"
)

// ProfileRepo defines the persistence operations for user profiles.
// A profile's ID is its user's ID.
type ProfileRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Profile, error)

	// Upsert creates the profile or overwrites its name, email and picture.
	Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// Delete removes the profile. The user account is left in place.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProfileRepo struct {
	db db
}

// NewProfileRepo constructs a ProfileRepo backed by the provided db connection.
func NewProfileRepo(db db) ProfileRepo {
	return &pgProfileRepo{db: db}
}

const profileColumns = `id, name, email, profile_picture, created_at, updated_at`

func (r *pgProfileRepo) Get(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = @id`

	result, err := scanProfile(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	q := `
		INSERT INTO user_profiles (id, name, email, profile_picture)
		VALUES (@id, @name, @email, @profile_picture)
		ON CONFLICT (id) DO UPDATE
		SET name            = EXCLUDED.name,
		    email           = EXCLUDED.email,
		    profile_picture = EXCLUDED.profile_picture,
		    updated_at      = now()
		RETURNING ` + profileColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":              p.ID,
		"name":            p.Name,
		"email":           p.Email,
		"profile_picture": p.ProfilePicture,
	})
	result, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("repo.ProfileRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_profiles WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ProfileRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ProfileRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanProfile(s scanner) (domain.Profile, error) {
	var (
		p  domain.Profile
		id pgtype.UUID
	)
	err := s.Scan(&id, &p.Name, &p.Email, &p.ProfilePicture, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}

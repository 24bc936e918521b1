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

// SavedPlaceRepo defines the persistence operations for a user's saved places.
type SavedPlaceRepo interface {
	Create(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error)

	// ListByUser returns the user's saved places in the order they were added.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error)

	// Delete removes a saved place owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type pgSavedPlaceRepo struct {
	db db
}

// NewSavedPlaceRepo constructs a SavedPlaceRepo backed by the provided db connection.
func NewSavedPlaceRepo(db db) SavedPlaceRepo {
	return &pgSavedPlaceRepo{db: db}
}

const savedPlaceColumns = `id, user_id, name, description, address, rating, image, website, place_id, added_at`

func (r *pgSavedPlaceRepo) Create(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error) {
	q := `
		INSERT INTO saved_places (user_id, name, description, address, rating, image, website, place_id)
		VALUES (@user_id, @name, @description, @address, @rating, @image, @website, @place_id)
		RETURNING ` + savedPlaceColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":     p.UserID,
		"name":        p.Name,
		"description": p.Description,
		"address":     p.Address,
		"rating":      p.Rating,
		"image":       p.Image,
		"website":     p.Website,
		"place_id":    p.PlaceID,
	})
	result, err := scanSavedPlace(row)
	if err != nil {
		return domain.SavedPlace{}, fmt.Errorf("repo.SavedPlaceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSavedPlaceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error) {
	q := `SELECT ` + savedPlaceColumns + `
		FROM saved_places
		WHERE user_id = @user_id
		ORDER BY added_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	places := []domain.SavedPlace{}
	for rows.Next() {
		p, err := scanSavedPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByUser: scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByUser: rows: %w", err)
	}
	return places, nil
}

func (r *pgSavedPlaceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM saved_places WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.SavedPlaceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SavedPlaceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanSavedPlace(s scanner) (domain.SavedPlace, error) {
	var (
		p      domain.SavedPlace
		id     pgtype.UUID
		userID pgtype.UUID
		rating pgtype.Float8
	)
	err := s.Scan(&id, &userID, &p.Name, &p.Description, &p.Address, &rating, &p.Image, &p.Website, &p.PlaceID, &p.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedPlace{}, domain.ErrNotFound
		}
		return domain.SavedPlace{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	if rating.Valid {
		r := rating.Float64
		p.Rating = &r
	}
	return p, nil
}

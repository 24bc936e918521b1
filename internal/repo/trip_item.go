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

// TripItemRepo defines the persistence operations for TripItems.
// All write and single-read operations are scoped by tripID to enforce ownership.
type TripItemRepo interface {
	// Create inserts a new item and returns the persisted record.
	Create(ctx context.Context, item domain.TripItem) (domain.TripItem, error)

	// GetByID retrieves a single item by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no item with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error)

	// ListByTripID returns all items for a trip ordered by day, then time.
	// Unscheduled items sort last.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error)

	// ListScheduled returns only items that have both a day and a time.
	ListScheduled(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error)

	// Update overwrites the mutable fields of an item, including its schedule.
	// Returns domain.ErrNotFound if no item with that ID exists under that trip.
	Update(ctx context.Context, item domain.TripItem) (domain.TripItem, error)

	// Delete removes an item by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no item with that ID exists under that trip.
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// pgTripItemRepo is the Postgres implementation of TripItemRepo.
type pgTripItemRepo struct {
	db db
}

// NewTripItemRepo constructs a TripItemRepo backed by the provided db connection.
func NewTripItemRepo(db db) TripItemRepo {
	return &pgTripItemRepo{db: db}
}

const itemColumns = `id, trip_id, type, title, location, day_number, scheduled_time, notes,
		place_id, ai_description, website, operating_hours, rating, image_url, created_at`

const itemOrder = `ORDER BY day_number ASC NULLS LAST, scheduled_time ASC NULLS LAST, created_at, id`

func (r *pgTripItemRepo) Create(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	q := `
		INSERT INTO trip_items (trip_id, type, title, location, day_number, scheduled_time, notes,
			place_id, ai_description, website, operating_hours, rating, image_url)
		VALUES (@trip_id, @type, @title, @location, @day_number, @scheduled_time, @notes,
			@place_id, @ai_description, @website, @operating_hours, @rating, @image_url)
		RETURNING ` + itemColumns

	row := r.db.QueryRow(ctx, q, itemArgs(item))
	result, err := scanItem(row)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	q := `SELECT ` + itemColumns + `
		FROM trip_items
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	result, err := scanItem(row)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	q := `SELECT ` + itemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		` + itemOrder

	items, err := r.list(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.TripItemRepo.ListByTripID: %w", err)
	}
	return items, nil
}

func (r *pgTripItemRepo) ListScheduled(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	q := `SELECT ` + itemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		  AND day_number IS NOT NULL
		  AND scheduled_time IS NOT NULL
		` + itemOrder

	items, err := r.list(ctx, q, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.TripItemRepo.ListScheduled: %w", err)
	}
	return items, nil
}

func (r *pgTripItemRepo) list(ctx context.Context, q string, tripID uuid.UUID) ([]domain.TripItem, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.TripItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *pgTripItemRepo) Update(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	q := `
		UPDATE trip_items
		SET type            = @type,
		    title           = @title,
		    location        = @location,
		    day_number      = @day_number,
		    scheduled_time  = @scheduled_time,
		    notes           = @notes,
		    place_id        = @place_id,
		    ai_description  = @ai_description,
		    website         = @website,
		    operating_hours = @operating_hours,
		    rating          = @rating,
		    image_url       = @image_url
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + itemColumns

	args := itemArgs(item)
	args["id"] = item.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanItem(row)
	if err != nil {
		return domain.TripItem{}, fmt.Errorf("repo.TripItemRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM trip_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.TripItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func itemArgs(it domain.TripItem) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":         it.TripID,
		"type":            string(it.Type),
		"title":           it.Title,
		"location":        it.Location,
		"day_number":      it.DayNumber,
		"scheduled_time":  it.ScheduledTime,
		"notes":           it.Notes,
		"place_id":        it.PlaceID,
		"ai_description":  it.AIDescription,
		"website":         it.Website,
		"operating_hours": it.OperatingHours,
		"rating":          it.Rating,
		"image_url":       it.ImageURL,
	}
}

// scanItem maps a single database row into a domain.TripItem.
// Nullable columns go through pgtype wrappers and come out as nil pointers.
func scanItem(s scanner) (domain.TripItem, error) {
	var (
		it        domain.TripItem
		id        pgtype.UUID
		tripID    pgtype.UUID
		itemType  string
		dayNumber pgtype.Int4
		schedTime pgtype.Text
		rating    pgtype.Float8
	)

	err := s.Scan(&id, &tripID, &itemType, &it.Title, &it.Location, &dayNumber, &schedTime, &it.Notes,
		&it.PlaceID, &it.AIDescription, &it.Website, &it.OperatingHours, &rating, &it.ImageURL, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripItem{}, domain.ErrNotFound
		}
		return domain.TripItem{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	it.Type = domain.ItemType(itemType)
	if dayNumber.Valid {
		d := int(dayNumber.Int32)
		it.DayNumber = &d
	}
	if schedTime.Valid {
		st := schedTime.String
		it.ScheduledTime = &st
	}
	if rating.Valid {
		rt := rating.Float64
		it.Rating = &rt
	}
	return it, nil
}

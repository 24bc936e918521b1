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

// TripRepo defines the persistence operations for Trips.
// Every read and write is scoped by the owning user's ID; a trip owned by
// someone else behaves exactly like a trip that does not exist.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by userID.
	// Returns domain.ErrNotFound if no such trip exists for that user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)

	// ListByUser returns all of a user's trips, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// ListByUserPaged returns one page of a user's trips, newest first, and the total count.
	ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if the trip does not exist for trip.UserID.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip (and, by cascade, its items).
	// Returns domain.ErrNotFound if it does not exist for that user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, trip_name, description, destination, start_date, end_date,
		budget, travelers, interests, accommodation_type, transportation_mode, status,
		itinerary, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO saved_trips (user_id, trip_name, description, destination, start_date, end_date,
			budget, travelers, interests, accommodation_type, transportation_mode, status, itinerary)
		VALUES (@user_id, @trip_name, @description, @destination, @start_date, @end_date,
			@budget, @travelers, @interests, @accommodation_type, @transportation_mode, @status, @itinerary)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + `
		FROM saved_trips
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns all trips for a user ordered by created_at descending.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + `
		FROM saved_trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	return trips, nil
}

// ListByUserPaged returns one page of a user's trips and the user's total trip count.
func (r *pgTripRepo) ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	const countQ = `SELECT count(*) FROM saved_trips WHERE user_id = @user_id`
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: count: %w", err)
	}

	q := `SELECT ` + tripColumns + `
		FROM saved_trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: %w", err)
	}
	trips, err := collectTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		UPDATE saved_trips
		SET trip_name           = @trip_name,
		    description         = @description,
		    destination         = @destination,
		    start_date          = @start_date,
		    end_date            = @end_date,
		    budget              = @budget,
		    travelers           = @travelers,
		    interests           = @interests,
		    accommodation_type  = @accommodation_type,
		    transportation_mode = @transportation_mode,
		    status              = @status,
		    itinerary           = @itinerary,
		    updated_at          = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM saved_trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// tripArgs builds the named arguments shared by Create and Update.
func tripArgs(t domain.Trip) pgx.NamedArgs {
	interests := t.Interests
	if interests == nil {
		interests = []string{}
	}
	itinerary := []byte(t.Itinerary)
	if len(itinerary) == 0 {
		itinerary = []byte("[]")
	}
	return pgx.NamedArgs{
		"user_id":             t.UserID,
		"trip_name":           t.Title,
		"description":         t.Description,
		"destination":         t.Destination,
		"start_date":          t.StartDate,
		"end_date":            t.EndDate,
		"budget":              t.Budget,
		"travelers":           t.Travelers,
		"interests":           interests,
		"accommodation_type":  t.AccommodationType,
		"transportation_mode": t.TransportationMode,
		"status":              string(t.Status),
		"itinerary":           itinerary,
	}
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, status and jsonb conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		userID    pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
		itinerary []byte
	)

	err := s.Scan(&id, &userID, &t.Title, &t.Description, &t.Destination, &startDate, &endDate,
		&t.Budget, &t.Travelers, &t.Interests, &t.AccommodationType, &t.TransportationMode, &status,
		&itinerary, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.Status = domain.TripStatus(status)
	t.Itinerary = itinerary
	if t.Interests == nil {
		t.Interests = []string{}
	}
	return t, nil
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
	"github.com/pkordes/maple-planner/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockTripItemRepo is a hand-written test double for repo.TripItemRepo.
type mockTripItemRepo struct {
	create        func(ctx context.Context, item domain.TripItem) (domain.TripItem, error)
	getByID       func(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error)
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error)
	listScheduled func(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error)
	update        func(ctx context.Context, item domain.TripItem) (domain.TripItem, error)
	delete        func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockTripItemRepo) Create(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	return m.create(ctx, item)
}
func (m *mockTripItemRepo) GetByID(ctx context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error) {
	return m.getByID(ctx, tripID, itemID)
}
func (m *mockTripItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockTripItemRepo) ListScheduled(ctx context.Context, tripID uuid.UUID) ([]domain.TripItem, error) {
	return m.listScheduled(ctx, tripID)
}
func (m *mockTripItemRepo) Update(ctx context.Context, item domain.TripItem) (domain.TripItem, error) {
	return m.update(ctx, item)
}
func (m *mockTripItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

// compile-time check: mockTripItemRepo must satisfy repo.TripItemRepo.
var _ repo.TripItemRepo = (*mockTripItemRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func validItem(tripID uuid.UUID) domain.TripItem {
	return domain.TripItem{
		TripID:   tripID,
		Type:     domain.ItemTypeActivity,
		Title:    "CN Tower",
		Location: "290 Bremner Blvd, Toronto",
	}
}

// itemFixture returns a trip owned by a fresh user and an echoing item repo
// that can also find one stored item.
func itemFixture() (domain.Trip, domain.TripItem, *mockTripItemRepo) {
	trip := validTrip(uuid.New())
	trip.ID = uuid.New()
	stored := validItem(trip.ID)
	stored.ID = uuid.New()

	items := &mockTripItemRepo{
		create: func(_ context.Context, it domain.TripItem) (domain.TripItem, error) { return it, nil },
		update: func(_ context.Context, it domain.TripItem) (domain.TripItem, error) { return it, nil },
		getByID: func(_ context.Context, tripID, itemID uuid.UUID) (domain.TripItem, error) {
			if tripID != stored.TripID || itemID != stored.ID {
				return domain.TripItem{}, domain.ErrNotFound
			}
			return stored, nil
		},
	}
	return trip, stored, items
}

// ---- Create ----------------------------------------------------------------

func TestTripItemService_Create_OK(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	got, err := svc.Create(context.Background(), trip.UserID, validItem(trip.ID))

	require.NoError(t, err)
	assert.Equal(t, "CN Tower", got.Title)
	assert.False(t, got.Scheduled())
}

func TestTripItemService_Create_TripNotOwned(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	_, err := svc.Create(context.Background(), uuid.New(), validItem(trip.ID))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripItemService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TripItem)
	}{
		{"blank title", func(it *domain.TripItem) { it.Title = "  " }},
		{"unknown type", func(it *domain.TripItem) { it.Type = "museum" }},
		{"day without time", func(it *domain.TripItem) { it.DayNumber = ptr(1) }},
		{"time without day", func(it *domain.TripItem) { it.ScheduledTime = ptr("09:00") }},
		{"day zero", func(it *domain.TripItem) { it.DayNumber, it.ScheduledTime = ptr(0), ptr("09:00") }},
		{"bad time", func(it *domain.TripItem) { it.DayNumber, it.ScheduledTime = ptr(1), ptr("25:00") }},
		{"rating out of range", func(it *domain.TripItem) { it.Rating = ptr(7.5) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trip, _, items := itemFixture()
			svc := service.NewTripItemService(ownedTrips(trip), items)
			in := validItem(trip.ID)
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), trip.UserID, in)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTripItemService_Create_NormalizesTime(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)
	in := validItem(trip.ID)
	in.DayNumber, in.ScheduledTime = ptr(2), ptr("9:05")

	got, err := svc.Create(context.Background(), trip.UserID, in)

	require.NoError(t, err)
	require.NotNil(t, got.ScheduledTime)
	assert.Equal(t, "09:05", *got.ScheduledTime)
}

func TestTripItemService_CreateFromPlace(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)
	place := domain.Place{
		PlaceID:     "ChIJ-canoe",
		Name:        "Canoe Restaurant",
		Description: "66 Wellington St W, Toronto",
		Address:     "66 Wellington St W, Toronto",
		Rating:      4.6,
		Image:       "https://img.example/canoe.jpg",
		WebsiteURI:  "https://canoe.example",
		Category:    domain.CategoryRestaurant,
	}

	got, err := svc.CreateFromPlace(context.Background(), trip.UserID, trip.ID, place, "")

	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeRestaurant, got.Type)
	assert.Equal(t, "Canoe Restaurant", got.Title)
	assert.Equal(t, "66 Wellington St W, Toronto", got.Location)
	assert.Equal(t, "ChIJ-canoe", got.PlaceID)
	assert.Equal(t, "https://canoe.example", got.Website)
	assert.Equal(t, "https://img.example/canoe.jpg", got.ImageURL)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 4.6, *got.Rating, 1e-9)
}

func TestTripItemService_CreateFromPlace_ExplicitType(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	got, err := svc.CreateFromPlace(context.Background(), trip.UserID, trip.ID,
		domain.Place{PlaceID: "x", Name: "Union Station", Category: domain.CategoryAttraction}, domain.ItemTypeTransport)

	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeTransport, got.Type)
	assert.Nil(t, got.Rating)
}

// ---- List ------------------------------------------------------------------

func TestTripItemService_List_Filters(t *testing.T) {
	trip, _, items := itemFixture()
	all := []domain.TripItem{
		{Title: "a", DayNumber: ptr(1), ScheduledTime: ptr("09:00")},
		{Title: "b", DayNumber: ptr(2), ScheduledTime: ptr("10:00")},
		{Title: "c", DayNumber: ptr(2), ScheduledTime: ptr("14:00")},
		{Title: "d"},
	}
	items.listByTripID = func(_ context.Context, _ uuid.UUID) ([]domain.TripItem, error) { return all, nil }
	items.listScheduled = func(_ context.Context, _ uuid.UUID) ([]domain.TripItem, error) {
		return append([]domain.TripItem(nil), all[:3]...), nil
	}
	svc := service.NewTripItemService(ownedTrips(trip), items)
	ctx := context.Background()

	got, err := svc.List(ctx, trip.UserID, trip.ID, service.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = svc.List(ctx, trip.UserID, trip.ID, service.ItemFilter{ScheduledOnly: true})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.List(ctx, trip.UserID, trip.ID, service.ItemFilter{Day: ptr(2)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)

	got, err = svc.List(ctx, trip.UserID, trip.ID, service.ItemFilter{Day: ptr(9)})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripItemService_List_TripNotOwned(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	_, err := svc.List(context.Background(), uuid.New(), trip.ID, service.ItemFilter{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update / Schedule -----------------------------------------------------

func TestTripItemService_Update_Patch(t *testing.T) {
	trip, stored, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	got, err := svc.Update(context.Background(), trip.UserID, trip.ID, stored.ID,
		domain.TripItemPatch{Notes: ptr("book tickets online")})

	require.NoError(t, err)
	assert.Equal(t, "book tickets online", got.Notes)
	assert.Equal(t, stored.Title, got.Title)
}

func TestTripItemService_Update_ItemNotFound(t *testing.T) {
	trip, _, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	_, err := svc.Update(context.Background(), trip.UserID, trip.ID, uuid.New(), domain.TripItemPatch{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripItemService_ScheduleThenUnschedule(t *testing.T) {
	trip, stored, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)
	ctx := context.Background()

	got, err := svc.Schedule(ctx, trip.UserID, trip.ID, stored.ID, 3, "18:30")
	require.NoError(t, err)
	require.True(t, got.Scheduled())
	assert.Equal(t, 3, *got.DayNumber)
	assert.Equal(t, "18:30", *got.ScheduledTime)

	got, err = svc.Unschedule(ctx, trip.UserID, trip.ID, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DayNumber)
	assert.Nil(t, got.ScheduledTime)
}

func TestTripItemService_Schedule_Invalid(t *testing.T) {
	trip, stored, items := itemFixture()
	svc := service.NewTripItemService(ownedTrips(trip), items)

	_, err := svc.Schedule(context.Background(), trip.UserID, trip.ID, stored.ID, 0, "10:00")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Schedule(context.Background(), trip.UserID, trip.ID, stored.ID, 1, "noon")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete ----------------------------------------------------------------

func TestTripItemService_Delete(t *testing.T) {
	trip, stored, items := itemFixture()
	var deleted uuid.UUID
	items.delete = func(_ context.Context, _, itemID uuid.UUID) error {
		deleted = itemID
		return nil
	}
	svc := service.NewTripItemService(ownedTrips(trip), items)

	require.NoError(t, svc.Delete(context.Background(), trip.UserID, trip.ID, stored.ID))
	assert.Equal(t, stored.ID, deleted)

	err := svc.Delete(context.Background(), uuid.New(), trip.ID, stored.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

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

type mockSavedPlaceRepo struct {
	create     func(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error)
	delete     func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockSavedPlaceRepo) Create(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error) {
	return m.create(ctx, p)
}
func (m *mockSavedPlaceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockSavedPlaceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

var _ repo.SavedPlaceRepo = (*mockSavedPlaceRepo)(nil)

func TestSavedPlaceService_Add(t *testing.T) {
	svc := service.NewSavedPlaceService(&mockSavedPlaceRepo{
		create: func(_ context.Context, p domain.SavedPlace) (domain.SavedPlace, error) {
			p.ID = uuid.New()
			return p, nil
		},
	})

	got, err := svc.Add(context.Background(), domain.SavedPlace{UserID: uuid.New(), Name: "  Peggy's Cove  "})

	require.NoError(t, err)
	assert.Equal(t, "Peggy's Cove", got.Name)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestSavedPlaceService_Add_Invalid(t *testing.T) {
	svc := service.NewSavedPlaceService(&mockSavedPlaceRepo{})

	_, err := svc.Add(context.Background(), domain.SavedPlace{UserID: uuid.New(), Name: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(context.Background(), domain.SavedPlace{UserID: uuid.New(), Name: "x", Rating: ptr(-1.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSavedPlaceService_ListAndRemove(t *testing.T) {
	svc := service.NewSavedPlaceService(&mockSavedPlaceRepo{
		listByUser: func(_ context.Context, _ uuid.UUID) ([]domain.SavedPlace, error) { return nil, nil },
		delete:     func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound },
	})

	got, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, got)

	assert.ErrorIs(t, svc.Remove(context.Background(), uuid.New(), uuid.New()), domain.ErrNotFound)
}

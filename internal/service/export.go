package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

const exportDateLayout = "2006-01-02"

// ExportService assembles a flat export of a user's trips and their items.
type ExportService struct {
	trips repo.TripRepo
	items repo.TripItemRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, items repo.TripItemRepo) *ExportService {
	return &ExportService{trips: trips, items: items}
}

// Export returns one ExportRow per item across all of the user's trips,
// trips newest first and items in itinerary order.
// Trips with no items contribute one row with empty item fields.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range trips {
		items, err := s.items.ListByTripID(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}

		base := domain.ExportRow{
			TripID:      t.ID.String(),
			TripTitle:   t.Title,
			Destination: t.Destination,
			StartDate:   t.StartDate.Format(exportDateLayout),
			EndDate:     t.EndDate.Format(exportDateLayout),
			Status:      t.Status,
		}
		if len(items) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, it := range items {
			row := base
			row.ItemTitle = it.Title
			row.ItemType = it.Type
			row.Location = it.Location
			row.DayNumber = it.DayNumber
			if it.ScheduledTime != nil {
				row.ScheduledTime = *it.ScheduledTime
			}
			row.Notes = it.Notes
			row.Rating = it.Rating
			row.PlaceID = it.PlaceID
			rows = append(rows, row)
		}
	}
	return rows, nil
}

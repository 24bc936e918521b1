package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemType classifies a place attached to a trip.
type ItemType string

const (
	ItemTypeAccommodation ItemType = "accommodation"
	ItemTypeActivity      ItemType = "activity"
	ItemTypeRestaurant    ItemType = "restaurant"
	ItemTypeTransport     ItemType = "transport"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeAccommodation, ItemTypeActivity, ItemTypeRestaurant, ItemTypeTransport:
		return true
	}
	return false
}

// ItemTypeForCategory maps a search category onto the item type used when a
// searched place is attached to a trip. Attractions and the catch-all category
// become activities.
func ItemTypeForCategory(c Category) ItemType {
	switch c {
	case CategoryRestaurant:
		return ItemTypeRestaurant
	case CategoryHotel:
		return ItemTypeAccommodation
	default:
		return ItemTypeActivity
	}
}

// ScheduledTimeLayout is the wall-clock format of TripItem.ScheduledTime.
const ScheduledTimeLayout = "15:04"

// TripItem is a place attached to a trip. DayNumber and ScheduledTime are
// either both set (the item is scheduled) or both nil (unscheduled).
type TripItem struct {
	ID             uuid.UUID
	TripID         uuid.UUID
	Type           ItemType
	Title          string
	Location       string
	DayNumber      *int
	ScheduledTime  *string
	Notes          string
	PlaceID        string
	AIDescription  string
	Website        string
	OperatingHours string
	Rating         *float64
	ImageURL       string
	CreatedAt      time.Time
}

// Scheduled reports whether the item has been assigned a day and time.
func (i TripItem) Scheduled() bool {
	return i.DayNumber != nil && i.ScheduledTime != nil
}

// TripItemPatch carries a partial update. Nil fields leave the item unchanged.
// Scheduling is done through dedicated operations, not through a patch.
type TripItemPatch struct {
	Type           *ItemType
	Title          *string
	Location       *string
	Notes          *string
	AIDescription  *string
	Website        *string
	OperatingHours *string
	Rating         *float64
	ImageURL       *string
}

// Apply returns a copy of i with the patch applied.
func (i TripItem) Apply(p TripItemPatch) TripItem {
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Location != nil {
		i.Location = *p.Location
	}
	if p.Notes != nil {
		i.Notes = *p.Notes
	}
	if p.AIDescription != nil {
		i.AIDescription = *p.AIDescription
	}
	if p.Website != nil {
		i.Website = *p.Website
	}
	if p.OperatingHours != nil {
		i.OperatingHours = *p.OperatingHours
	}
	if p.Rating != nil {
		r := *p.Rating
		i.Rating = &r
	}
	if p.ImageURL != nil {
		i.ImageURL = *p.ImageURL
	}
	return i
}

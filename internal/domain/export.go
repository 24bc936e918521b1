package domain

// ExportRow is a single row in the itinerary export.
// It is a flat, denormalized view: one row per trip item, with trip fields
// repeated for every item on that trip. Trips with no items yield one row
// with zero values for all item fields.
type ExportRow struct {
	// Trip fields, repeated for every item on the trip.
	TripID      string
	TripTitle   string
	Destination string
	StartDate   string // "2006-01-02"
	EndDate     string // "2006-01-02"
	Status      TripStatus

	// Item fields, zero values when the trip has no items.
	ItemTitle     string
	ItemType      ItemType
	Location      string
	DayNumber     *int
	ScheduledTime string
	Notes         string
	Rating        *float64
	PlaceID       string
}

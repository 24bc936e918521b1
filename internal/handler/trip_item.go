package handler

import (
	"errors"
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/service"
)

// TripItem is the wire form of a place attached to a trip.
type TripItem struct {
	ID             openapi_types.UUID `json:"id"`
	TripID         openapi_types.UUID `json:"trip_id"`
	Type           domain.ItemType    `json:"type"`
	Title          string             `json:"title"`
	Location       string             `json:"location"`
	DayNumber      *int               `json:"day_number"`
	ScheduledTime  *string            `json:"scheduled_time"`
	Notes          string             `json:"notes"`
	PlaceID        string             `json:"place_id"`
	AIDescription  string             `json:"ai_description"`
	Website        string             `json:"website"`
	OperatingHours string             `json:"operating_hours"`
	Rating         *float64           `json:"rating"`
	ImageURL       string             `json:"image_url"`
	CreatedAt      time.Time          `json:"created_at"`
}

// CreateTripItemRequest is the body of POST /trips/{tripId}/items.
type CreateTripItemRequest struct {
	Type           domain.ItemType `json:"type"`
	Title          string          `json:"title"`
	Location       string          `json:"location"`
	DayNumber      *int            `json:"day_number,omitempty"`
	ScheduledTime  *string         `json:"scheduled_time,omitempty"`
	Notes          string          `json:"notes"`
	PlaceID        string          `json:"place_id"`
	AIDescription  string          `json:"ai_description"`
	Website        string          `json:"website"`
	OperatingHours string          `json:"operating_hours"`
	Rating         *float64        `json:"rating,omitempty"`
	ImageURL       string          `json:"image_url"`
}

// UpdateTripItemRequest is the body of PATCH /trips/{tripId}/items/{itemId}.
type UpdateTripItemRequest struct {
	Type           *domain.ItemType `json:"type,omitempty"`
	Title          *string          `json:"title,omitempty"`
	Location       *string          `json:"location,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	AIDescription  *string          `json:"ai_description,omitempty"`
	Website        *string          `json:"website,omitempty"`
	OperatingHours *string          `json:"operating_hours,omitempty"`
	Rating         *float64         `json:"rating,omitempty"`
	ImageURL       *string          `json:"image_url,omitempty"`
}

// FromPlaceRequest is the body of POST /trips/{tripId}/items/from-place.
// Type defaults from the place's search category.
type FromPlaceRequest struct {
	Place Place           `json:"place"`
	Type  domain.ItemType `json:"type,omitempty"`
}

// ScheduleRequest is the body of PUT /trips/{tripId}/items/{itemId}/schedule.
type ScheduleRequest struct {
	DayNumber     int    `json:"day_number"`
	ScheduledTime string `json:"scheduled_time"`
}

// ListTripItems handles GET /trips/{tripId}/items.
// ?scheduled=true keeps only scheduled items; ?day=N keeps one day's items.
func (s *Server) ListTripItems(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	var (
		scheduled *bool
		day       *int
	)
	if err := queryBool(r, "scheduled", &scheduled); err != nil {
		requestError(w, err)
		return
	}
	if err := queryInt(r, "day", &day); err != nil {
		requestError(w, err)
		return
	}

	f := service.ItemFilter{Day: day, ScheduledOnly: scheduled != nil && *scheduled}
	items, err := s.items.List(r.Context(), principal(r).UserID, tripID, f)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	out := make([]TripItem, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTripItem handles POST /trips/{tripId}/items.
func (s *Server) CreateTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	var body CreateTripItemRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	created, err := s.items.Create(r.Context(), principal(r).UserID, domain.TripItem{
		TripID:         tripID,
		Type:           body.Type,
		Title:          body.Title,
		Location:       body.Location,
		DayNumber:      body.DayNumber,
		ScheduledTime:  body.ScheduledTime,
		Notes:          body.Notes,
		PlaceID:        body.PlaceID,
		AIDescription:  body.AIDescription,
		Website:        body.Website,
		OperatingHours: body.OperatingHours,
		Rating:         body.Rating,
		ImageURL:       body.ImageURL,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(created))
}

// CreateTripItemFromPlace handles POST /trips/{tripId}/items/from-place.
func (s *Server) CreateTripItemFromPlace(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	var body FromPlaceRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	if body.Place.PlaceID == "" && body.Place.Name == "" {
		requestError(w, errors.New("place is required"))
		return
	}

	created, err := s.items.CreateFromPlace(r.Context(), principal(r).UserID, tripID, requestToPlace(body.Place), body.Type)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(created))
}

// UpdateTripItem handles PATCH /trips/{tripId}/items/{itemId}.
func (s *Server) UpdateTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	var body UpdateTripItemRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	updated, err := s.items.Update(r.Context(), principal(r).UserID, tripID, itemID, domain.TripItemPatch{
		Type:           body.Type,
		Title:          body.Title,
		Location:       body.Location,
		Notes:          body.Notes,
		AIDescription:  body.AIDescription,
		Website:        body.Website,
		OperatingHours: body.OperatingHours,
		Rating:         body.Rating,
		ImageURL:       body.ImageURL,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip item not found")
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(updated))
}

// DeleteTripItem handles DELETE /trips/{tripId}/items/{itemId}.
func (s *Server) DeleteTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	if err := s.items.Delete(r.Context(), principal(r).UserID, tripID, itemID); err != nil {
		s.serviceError(w, r, err, "trip item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScheduleTripItem handles PUT /trips/{tripId}/items/{itemId}/schedule.
func (s *Server) ScheduleTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	var body ScheduleRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	item, err := s.items.Schedule(r.Context(), principal(r).UserID, tripID, itemID, body.DayNumber, body.ScheduledTime)
	if err != nil {
		s.serviceError(w, r, err, "trip item not found")
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(item))
}

// UnscheduleTripItem handles DELETE /trips/{tripId}/items/{itemId}/schedule.
func (s *Server) UnscheduleTripItem(w http.ResponseWriter, r *http.Request) {
	tripID, itemID, ok := itemPath(w, r)
	if !ok {
		return
	}
	item, err := s.items.Unschedule(r.Context(), principal(r).UserID, tripID, itemID)
	if err != nil {
		s.serviceError(w, r, err, "trip item not found")
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(item))
}

// --- mapping helpers --------------------------------------------------------

// itemPath binds both ids of an item route, writing the error response itself.
func itemPath(w http.ResponseWriter, r *http.Request) (tripID, itemID openapi_types.UUID, ok bool) {
	tripID, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return tripID, itemID, false
	}
	itemID, err = pathUUID(r, "itemId")
	if err != nil {
		requestError(w, err)
		return tripID, itemID, false
	}
	return tripID, itemID, true
}

func itemToResponse(it domain.TripItem) TripItem {
	return TripItem{
		ID:             it.ID,
		TripID:         it.TripID,
		Type:           it.Type,
		Title:          it.Title,
		Location:       it.Location,
		DayNumber:      it.DayNumber,
		ScheduledTime:  it.ScheduledTime,
		Notes:          it.Notes,
		PlaceID:        it.PlaceID,
		AIDescription:  it.AIDescription,
		Website:        it.Website,
		OperatingHours: it.OperatingHours,
		Rating:         it.Rating,
		ImageURL:       it.ImageURL,
		CreatedAt:      it.CreatedAt,
	}
}

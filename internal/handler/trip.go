package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
)

// Trip is the wire form of a trip.
type Trip struct {
	ID                 openapi_types.UUID `json:"id"`
	UserID             openapi_types.UUID `json:"user_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Destination        string             `json:"destination"`
	StartDate          openapi_types.Date `json:"start_date"`
	EndDate            openapi_types.Date `json:"end_date"`
	Budget             float64            `json:"budget"`
	Travelers          int                `json:"travelers"`
	Interests          []string           `json:"interests"`
	AccommodationType  string             `json:"accommodation_type"`
	TransportationMode string             `json:"transportation_mode"`
	Status             domain.TripStatus  `json:"status"`
	Itinerary          json.RawMessage    `json:"itinerary"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// CreateTripRequest is the body of POST /trips. Blank optional fields take
// the service defaults.
type CreateTripRequest struct {
	Title              string              `json:"title"`
	TripName           string              `json:"trip_name"`
	Description        string              `json:"description"`
	Destination        string              `json:"destination"`
	StartDate          *openapi_types.Date `json:"start_date"`
	EndDate            *openapi_types.Date `json:"end_date"`
	Budget             float64             `json:"budget"`
	Travelers          int                 `json:"travelers"`
	Interests          []string            `json:"interests"`
	AccommodationType  string              `json:"accommodation_type"`
	TransportationMode string              `json:"transportation_mode"`
	Status             domain.TripStatus   `json:"status"`
	Itinerary          json.RawMessage     `json:"itinerary,omitempty"`
}

// UpdateTripRequest is the body of PATCH /trips/{id}. Omitted fields are unchanged.
type UpdateTripRequest struct {
	Title              *string             `json:"title,omitempty"`
	Description        *string             `json:"description,omitempty"`
	Destination        *string             `json:"destination,omitempty"`
	StartDate          *openapi_types.Date `json:"start_date,omitempty"`
	EndDate            *openapi_types.Date `json:"end_date,omitempty"`
	Budget             *float64            `json:"budget,omitempty"`
	Travelers          *int                `json:"travelers,omitempty"`
	Interests          *[]string           `json:"interests,omitempty"`
	AccommodationType  *string             `json:"accommodation_type,omitempty"`
	TransportationMode *string             `json:"transportation_mode,omitempty"`
	Status             *domain.TripStatus  `json:"status,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	trip, err := requestToTrip(body)
	if err != nil {
		requestError(w, err)
		return
	}
	trip.UserID = principal(r).UserID

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryInt(r, "page", &page); err != nil {
		requestError(w, err)
		return
	}
	if err := queryInt(r, "limit", &limit); err != nil {
		requestError(w, err)
		return
	}
	params := domain.NewPaginationParams(page, limit)

	trips, total, err := s.trips.ListPaged(r.Context(), principal(r).UserID, params)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
			Pages: params.Pages(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	trip, err := s.trips.GetByID(r.Context(), principal(r).UserID, id)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	var body UpdateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	updated, err := s.trips.Update(r.Context(), principal(r).UserID, id, requestToTripPatch(body))
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripId")
	if err != nil {
		requestError(w, err)
		return
	}
	if err := s.trips.Delete(r.Context(), principal(r).UserID, id); err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a CreateTripRequest body into a domain.Trip.
// trip_name is accepted as an alias for title.
func requestToTrip(body CreateTripRequest) (domain.Trip, error) {
	if body.StartDate == nil || body.EndDate == nil {
		return domain.Trip{}, errors.New("start_date and end_date are required")
	}
	title := body.Title
	if title == "" {
		title = body.TripName
	}
	return domain.Trip{
		Title:              title,
		Description:        body.Description,
		Destination:        body.Destination,
		StartDate:          body.StartDate.Time,
		EndDate:            body.EndDate.Time,
		Budget:             body.Budget,
		Travelers:          body.Travelers,
		Interests:          body.Interests,
		AccommodationType:  body.AccommodationType,
		TransportationMode: body.TransportationMode,
		Status:             body.Status,
		Itinerary:          body.Itinerary,
	}, nil
}

func requestToTripPatch(body UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{
		Title:              body.Title,
		Description:        body.Description,
		Destination:        body.Destination,
		Budget:             body.Budget,
		Travelers:          body.Travelers,
		Interests:          body.Interests,
		AccommodationType:  body.AccommodationType,
		TransportationMode: body.TransportationMode,
		Status:             body.Status,
	}
	if body.StartDate != nil {
		p.StartDate = &body.StartDate.Time
	}
	if body.EndDate != nil {
		p.EndDate = &body.EndDate.Time
	}
	return p
}

// tripToResponse converts a domain.Trip to the wire type.
func tripToResponse(t domain.Trip) Trip {
	interests := t.Interests
	if interests == nil {
		interests = []string{}
	}
	itinerary := t.Itinerary
	if len(itinerary) == 0 {
		itinerary = json.RawMessage("[]")
	}
	return Trip{
		ID:                 t.ID,
		UserID:             t.UserID,
		Title:              t.Title,
		Description:        t.Description,
		Destination:        t.Destination,
		StartDate:          openapi_types.Date{Time: t.StartDate},
		EndDate:            openapi_types.Date{Time: t.EndDate},
		Budget:             t.Budget,
		Travelers:          t.Travelers,
		Interests:          interests,
		AccommodationType:  t.AccommodationType,
		TransportationMode: t.TransportationMode,
		Status:             t.Status,
		Itinerary:          itinerary,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

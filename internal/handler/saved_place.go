package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
)

// SavedPlace is the wire form of a saved-list entry.
type SavedPlace struct {
	ID          openapi_types.UUID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Address     string             `json:"address"`
	Rating      *float64           `json:"rating,omitempty"`
	Image       string             `json:"image"`
	Website     string             `json:"website"`
	PlaceID     string             `json:"place_id"`
	AddedAt     time.Time          `json:"added_at"`
}

// SavedPlaceRequest is the body of POST /saved-places.
type SavedPlaceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating,omitempty"`
	Image       string   `json:"image"`
	Website     string   `json:"website"`
	PlaceID     string   `json:"place_id"`
}

// ListSavedPlaces handles GET /saved-places.
func (s *Server) ListSavedPlaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.savedPlaces.List(r.Context(), principal(r).UserID)
	if err != nil {
		s.serviceError(w, r, err, "saved place not found")
		return
	}
	out := make([]SavedPlace, len(list))
	for i, p := range list {
		out[i] = savedPlaceToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// AddSavedPlace handles POST /saved-places.
func (s *Server) AddSavedPlace(w http.ResponseWriter, r *http.Request) {
	var body SavedPlaceRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	created, err := s.savedPlaces.Add(r.Context(), domain.SavedPlace{
		UserID:      principal(r).UserID,
		Name:        body.Name,
		Description: body.Description,
		Address:     body.Address,
		Rating:      body.Rating,
		Image:       body.Image,
		Website:     body.Website,
		PlaceID:     body.PlaceID,
	})
	if err != nil {
		s.serviceError(w, r, err, "saved place not found")
		return
	}
	writeJSON(w, http.StatusCreated, savedPlaceToResponse(created))
}

// RemoveSavedPlace handles DELETE /saved-places/{id}.
func (s *Server) RemoveSavedPlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		requestError(w, err)
		return
	}
	if err := s.savedPlaces.Remove(r.Context(), principal(r).UserID, id); err != nil {
		s.serviceError(w, r, err, "saved place not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func savedPlaceToResponse(p domain.SavedPlace) SavedPlace {
	return SavedPlace{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Rating:      p.Rating,
		Image:       p.Image,
		Website:     p.Website,
		PlaceID:     p.PlaceID,
		AddedAt:     p.AddedAt,
	}
}

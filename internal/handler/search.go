package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/search"
	"github.com/pkordes/maple-planner/internal/service"
)

// Place is the wire form of a search result.
type Place struct {
	PlaceID           string             `json:"place_id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Address           string             `json:"address"`
	Rating            float64            `json:"rating"`
	Image             string             `json:"image"`
	WebsiteURI        string             `json:"website_uri,omitempty"`
	Category          domain.Category    `json:"category,omitempty"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
}

// AddressComponent is one structured part of a place's address.
type AddressComponent struct {
	LongText  string   `json:"long_text"`
	ShortText string   `json:"short_text"`
	Types     []string `json:"types,omitempty"`
}

// SearchPage is what a client displays for a search session.
type SearchPage struct {
	SessionID   string          `json:"session_id"`
	Location    string          `json:"location"`
	Category    domain.Category `json:"category"`
	Places      []Place         `json:"places"`
	Shown       int             `json:"shown"`
	Total       int             `json:"total"`
	HasMore     bool            `json:"has_more"`
	HasNextPage bool            `json:"has_next_page"`
	Status      search.Status   `json:"status"`
}

// QueryRequest is the body of POST /search/sessions/{id}/query.
type QueryRequest struct {
	Location string `json:"location"`
	Category string `json:"category"`
	NextPage bool   `json:"next_page"`
}

// CreateSearchSession handles POST /search/sessions.
func (s *Server) CreateSearchSession(w http.ResponseWriter, r *http.Request) {
	page, err := s.search.CreateSession(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "search session not found")
		return
	}
	writeJSON(w, http.StatusCreated, pageToResponse(page))
}

// DeleteSearchSession handles DELETE /search/sessions/{id}.
func (s *Server) DeleteSearchSession(w http.ResponseWriter, r *http.Request) {
	if err := s.search.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.serviceError(w, r, err, "search session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuerySearchSession handles POST /search/sessions/{id}/query.
// A newer query on the same session makes this one fail with 409 search_superseded.
func (s *Server) QuerySearchSession(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	page, err := s.search.Query(r.Context(), chi.URLParam(r, "id"), service.QueryInput{
		Location: body.Location,
		Category: body.Category,
		NextPage: body.NextPage,
	})
	if err != nil {
		s.serviceError(w, r, err, "search session not found")
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// MoreSearchResults handles POST /search/sessions/{id}/more.
// It reveals already-fetched results and never calls the places API.
func (s *Server) MoreSearchResults(w http.ResponseWriter, r *http.Request) {
	page, err := s.search.More(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serviceError(w, r, err, "search session not found")
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// Explore handles GET /search/explore?location=&session_id=.
// Without a session_id a new session is created for the results.
func (s *Server) Explore(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		requestError(w, errors.New("location is required"))
		return
	}
	page, err := s.search.Explore(r.Context(), r.URL.Query().Get("session_id"), location)
	if err != nil {
		s.serviceError(w, r, err, "search session not found")
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// GetPlace handles GET /places/{placeId}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	p, err := s.search.Details(r.Context(), chi.URLParam(r, "placeId"))
	if err != nil {
		s.serviceError(w, r, err, "place not found")
		return
	}
	writeJSON(w, http.StatusOK, placeToResponse(p))
}

// --- mapping helpers --------------------------------------------------------

func pageToResponse(p search.Page) SearchPage {
	places := make([]Place, len(p.Places))
	for i, pl := range p.Places {
		places[i] = placeToResponse(pl)
	}
	return SearchPage{
		SessionID:   p.SessionID,
		Location:    p.Location,
		Category:    p.Category,
		Places:      places,
		Shown:       p.Shown,
		Total:       p.Total,
		HasMore:     p.HasMore,
		HasNextPage: p.HasNextPage,
		Status:      p.Status,
	}
}

func placeToResponse(p domain.Place) Place {
	out := Place{
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Rating:      p.Rating,
		Image:       p.Image,
		WebsiteURI:  p.WebsiteURI,
		Category:    p.Category,
	}
	for _, c := range p.AddressComponents {
		out.AddressComponents = append(out.AddressComponents, AddressComponent(c))
	}
	return out
}

func requestToPlace(p Place) domain.Place {
	out := domain.Place{
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Rating:      p.Rating,
		Image:       p.Image,
		WebsiteURI:  p.WebsiteURI,
		Category:    p.Category,
	}
	for _, c := range p.AddressComponents {
		out.AddressComponents = append(out.AddressComponents, domain.AddressComponent(c))
	}
	return out
}

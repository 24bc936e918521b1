package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/maple-planner/internal/locations"
)

// Province is the wire form of a province or territory.
type Province struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// ProvinceLookup is the body of GET /locations/lookup.
type ProvinceLookup struct {
	City     string   `json:"city"`
	Province Province `json:"province"`
}

// ListProvinces handles GET /locations/provinces.
func (s *Server) ListProvinces(w http.ResponseWriter, _ *http.Request) {
	ps := s.locations.Provinces()
	out := make([]Province, len(ps))
	for i, p := range ps {
		out[i] = provinceToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListCities handles GET /locations/provinces/{id}/cities.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.locations.Cities(chi.URLParam(r, "id"))
	if err != nil {
		s.serviceError(w, r, err, "province not found")
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// LookupProvince handles GET /locations/lookup?city=.
func (s *Server) LookupProvince(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		requestError(w, errors.New("city is required"))
		return
	}
	p, err := s.locations.ProvinceByCity(city)
	if err != nil {
		s.serviceError(w, r, err, "city not found")
		return
	}
	writeJSON(w, http.StatusOK, ProvinceLookup{City: city, Province: provinceToResponse(p)})
}

func provinceToResponse(p locations.Province) Province {
	cities := p.Cities
	if cities == nil {
		cities = []string{}
	}
	return Province{ID: p.ID, Name: p.Name, Cities: cities}
}

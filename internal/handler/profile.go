package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
)

// Profile is the wire form of a user profile.
type Profile struct {
	ID             openapi_types.UUID `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	ProfilePicture string             `json:"profile_picture"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ProfileRequest is the body of PUT /profile. Omitted fields are unchanged.
type ProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// GetProfile handles GET /profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), principal(r).UserID)
	if err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// UpsertProfile handles PUT /profile.
func (s *Server) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var body ProfileRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	p, err := s.profiles.Upsert(r.Context(), principal(r).UserID, domain.ProfilePatch{
		Name:           body.Name,
		ProfilePicture: body.ProfilePicture,
	})
	if err != nil {
		s.serviceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// DeleteProfile handles DELETE /profile.
func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), principal(r).UserID); err != nil {
		s.serviceError(w, r, err, "profile not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func profileToResponse(p domain.Profile) Profile {
	return Profile{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		ProfilePicture: p.ProfilePicture,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

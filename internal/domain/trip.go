// Package domain contains the core data types for the Maple Planner application.
// This package has no infrastructure dependencies and is imported by every other
// internal package (repo, service, search, handler).
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip. Transitions are not enforced;
// the owner may set any valid status at any time.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPlanned   TripStatus = "planned"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusDraft, TripStatusPlanned, TripStatusActive, TripStatusCompleted:
		return true
	}
	return false
}

// Defaults applied by the service when a create request leaves a field empty.
const (
	DefaultTripTitle          = "Untitled Trip"
	DefaultTripDestination    = "Unknown"
	DefaultTravelers          = 1
	DefaultAccommodationType  = "hotel"
	DefaultTransportationMode = "car"
)

// Trip is a user-owned planning record. It is the top-level aggregate;
// trip items belong to a trip.
type Trip struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Description        string
	Destination        string
	StartDate          time.Time
	EndDate            time.Time
	Budget             float64
	Travelers          int
	Interests          []string
	AccommodationType  string
	TransportationMode string
	Status             TripStatus
	Itinerary          json.RawMessage
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TripPatch carries a partial update. Nil fields leave the trip unchanged.
type TripPatch struct {
	Title              *string
	Description        *string
	Destination        *string
	StartDate          *time.Time
	EndDate            *time.Time
	Budget             *float64
	Travelers          *int
	Interests          *[]string
	AccommodationType  *string
	TransportationMode *string
	Status             *TripStatus
}

// Apply returns a copy of t with the patch applied.
// Blank strings for title, destination, accommodation, transportation and
// status are ignored so a client clearing a form field cannot erase them;
// description is the only text field that may be set to empty.
func (t Trip) Apply(p TripPatch) Trip {
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Destination != nil && strings.TrimSpace(*p.Destination) != "" {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		t.Budget = *p.Budget
	}
	if p.Travelers != nil {
		t.Travelers = *p.Travelers
	}
	if p.Interests != nil {
		t.Interests = append([]string(nil), (*p.Interests)...)
	}
	if p.AccommodationType != nil && *p.AccommodationType != "" {
		t.AccommodationType = *p.AccommodationType
	}
	if p.TransportationMode != nil && *p.TransportationMode != "" {
		t.TransportationMode = *p.TransportationMode
	}
	if p.Status != nil && *p.Status != "" {
		t.Status = *p.Status
	}
	return t
}

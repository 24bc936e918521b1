package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category selects which canned query set a place search uses.
type Category string

const (
	CategoryAttraction Category = "attraction"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryActivity   Category = "activity"
	CategoryAll        Category = "all"
)

// ExploreCategories is the fixed order in which the explore view searches.
var ExploreCategories = []Category{CategoryAttraction, CategoryRestaurant, CategoryHotel, CategoryActivity}

// ParseCategory normalises s into a Category. Empty or unknown values map to
// CategoryAll, matching the search helper's "default to everything" behaviour.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryAttraction, CategoryRestaurant, CategoryHotel, CategoryActivity:
		return c
	}
	return CategoryAll
}

// PhotoRef is an opaque photo reference returned by the places API.
// Name is resolved into an image URL through the photo-media endpoint.
type PhotoRef struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"width_px,omitempty"`
	HeightPx int    `json:"height_px,omitempty"`
}

// AddressComponent is one structured piece of a place's address, such as
// its city or province. Only place details carry them.
type AddressComponent struct {
	LongText  string   `json:"long_text"`
	ShortText string   `json:"short_text"`
	Types     []string `json:"types,omitempty"`
}

// Place is an ephemeral search result. It is never persisted unless a user
// converts it into a TripItem or a SavedPlace.
// JSON tags are used when a search session is serialised to Redis.
type Place struct {
	PlaceID     string     `json:"place_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Rating      float64    `json:"rating"`
	Image       string     `json:"image"`
	WebsiteURI  string     `json:"website_uri,omitempty"`
	Category    Category   `json:"category,omitempty"`
	Photos      []PhotoRef `json:"photos,omitempty"`

	AddressComponents []AddressComponent `json:"address_components,omitempty"`
}

// SavedPlace is an entry in a user's saved-item list, independent of any trip.
type SavedPlace struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Address     string
	Rating      *float64
	Image       string
	Website     string
	PlaceID     string
	AddedAt     time.Time
}

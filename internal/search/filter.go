package search

import (
	"regexp"
	"strings"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/places"
)

// DefaultRating is used when the API returns no rating for a place.
const DefaultRating = 4.0

var adminTypes = map[string]bool{
	"locality":                    true,
	"political":                   true,
	"administrative_area_level_1": true,
	"administrative_area_level_2": true,
	"country":                     true,
	"postal_code":                 true,
}

var genericNames = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(unnamed|untitled|generic)`),
	regexp.MustCompile(`(?i)^\d+\s+(street|avenue|road|drive)$`),
}

// Accept reports whether a raw result is a real, named, addressable place.
// A result whose types are all administrative is a region, not a place. A
// present but empty types list counts as all-administrative.
func Accept(r places.Result) bool {
	if r.ID == "" {
		return false
	}
	name := strings.TrimSpace(r.Name())
	if name == "" {
		return false
	}
	if strings.TrimSpace(r.FormattedAddress) == "" {
		return false
	}
	if r.Types != nil && onlyAdminTypes(r.Types) {
		return false
	}
	lower := strings.ToLower(r.Name())
	for _, re := range genericNames {
		if re.MatchString(lower) {
			return false
		}
	}
	return true
}

func onlyAdminTypes(types []string) bool {
	for _, t := range types {
		if !adminTypes[t] {
			return false
		}
	}
	return true
}

// ToPlace converts an accepted result into a domain.Place tagged with category.
// Image is left empty; the aggregator resolves it.
func ToPlace(r places.Result, category domain.Category) domain.Place {
	rating := DefaultRating
	if r.Rating != nil && *r.Rating != 0 {
		rating = *r.Rating
	}
	photos := make([]domain.PhotoRef, 0, len(r.Photos))
	for _, p := range r.Photos {
		photos = append(photos, domain.PhotoRef{Name: p.Name, WidthPx: p.WidthPx, HeightPx: p.HeightPx})
	}
	return domain.Place{
		PlaceID:     r.ID,
		Name:        r.Name(),
		Description: r.FormattedAddress,
		Address:     r.FormattedAddress,
		Rating:      rating,
		WebsiteURI:  r.WebsiteURI,
		Category:    category,
		Photos:      photos,
	}
}

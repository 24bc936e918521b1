package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxResultCount is the page size requested from text search.
const MaxResultCount = 20

const searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating," +
	"places.photos,places.websiteUri,places.types,nextPageToken"

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rectangle is a viewport given by its south-west and north-east corners.
type Rectangle struct {
	Low  LatLng `json:"low"`
	High LatLng `json:"high"`
}

// Canada bounds every text search to the continental Canada rectangle.
var Canada = Rectangle{
	Low:  LatLng{Latitude: 41.6765559, Longitude: -141.00187},
	High: LatLng{Latitude: 83.23324, Longitude: -52.6480987},
}

// TextQuery is one text-search request.
type TextQuery struct {
	Query     string
	PageToken string
}

// LocalizedText is the upstream wrapper around display strings.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Photo is a photo reference; Name feeds PhotoURI.
type Photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
}

// AddressComponent is one structured piece of a place's address.
type AddressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

// Result is a raw place as returned by the API, before any filtering.
type Result struct {
	ID                string             `json:"id"`
	DisplayName       *LocalizedText     `json:"displayName,omitempty"`
	FormattedAddress  string             `json:"formattedAddress"`
	Rating            *float64           `json:"rating,omitempty"`
	Photos            []Photo            `json:"photos,omitempty"`
	WebsiteURI        string             `json:"websiteUri,omitempty"`
	Types             []string           `json:"types,omitempty"`
	AddressComponents []AddressComponent `json:"addressComponents,omitempty"`
}

// Name returns the display name text, or "" when absent.
func (r Result) Name() string {
	if r.DisplayName == nil {
		return ""
	}
	return r.DisplayName.Text
}

// SearchResponse is one page of text-search results.
type SearchResponse struct {
	Places        []Result `json:"places"`
	NextPageToken string   `json:"nextPageToken"`
}

type searchTextRequest struct {
	TextQuery           string              `json:"textQuery"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
	PageToken           string              `json:"pageToken,omitempty"`
}

type locationRestriction struct {
	Rectangle Rectangle `json:"rectangle"`
}

// SearchText runs one text query restricted to Canada.
func (c *Client) SearchText(ctx context.Context, q TextQuery) (SearchResponse, error) {
	body := searchTextRequest{
		TextQuery:           q.Query,
		MaxResultCount:      MaxResultCount,
		LocationRestriction: locationRestriction{Rectangle: Canada},
		PageToken:           q.PageToken,
	}

	data, err := c.do(ctx, true, "searchText", http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, body)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("places.Client.SearchText: %w", err)
	}

	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return SearchResponse{}, fmt.Errorf("places.Client.SearchText: decode: %w", err)
	}
	return resp, nil
}

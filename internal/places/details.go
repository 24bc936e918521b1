package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const detailsFieldMask = "id,displayName,formattedAddress,rating,photos,websiteUri,addressComponents"

// PhotoMaxPx bounds both sides of a resolved photo.
const PhotoMaxPx = 800

// ErrNoPhotoURI is returned when the media endpoint answers without a photoUri.
var ErrNoPhotoURI = errors.New("places: response has no photoUri")

// Details fetches one place by id.
func (c *Client) Details(ctx context.Context, placeID string) (Result, error) {
	u := c.baseURL + "/places/" + url.PathEscape(placeID)

	data, err := c.do(ctx, true, "details", http.MethodGet, u, detailsFieldMask, nil)
	if err != nil {
		return Result{}, fmt.Errorf("places.Client.Details: %w", err)
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("places.Client.Details: decode: %w", err)
	}
	if r.ID == "" {
		r.ID = placeID
	}
	return r, nil
}

// PhotoURI resolves a photo reference name ("places/x/photos/y") into a
// short-lived image URL without following the redirect. Photo lookups are not
// paced; only text searches and details share the limiter.
func (c *Client) PhotoURI(ctx context.Context, photoName string) (string, error) {
	q := url.Values{}
	q.Set("maxHeightPx", fmt.Sprint(PhotoMaxPx))
	q.Set("maxWidthPx", fmt.Sprint(PhotoMaxPx))
	q.Set("skipHttpRedirect", "true")
	u := c.baseURL + "/" + photoName + "/media?" + q.Encode()

	data, err := c.do(ctx, false, "photoMedia", http.MethodGet, u, "", nil)
	if err != nil {
		return "", fmt.Errorf("places.Client.PhotoURI: %w", err)
	}

	uri := gjson.GetBytes(data, "photoUri").String()
	if uri == "" {
		return "", fmt.Errorf("places.Client.PhotoURI: %w", ErrNoPhotoURI)
	}
	return uri, nil
}

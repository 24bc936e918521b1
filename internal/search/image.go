package search

import (
	"context"
	"errors"
	"image"
	_ "image/gif" // register decoders for DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/maple-planner/internal/domain"
)

// FallbackImageURL is served when no candidate image validates.
const FallbackImageURL = "https://d64gsuwffb70l.cloudfront.net/68619901175d7c6ee1f37cfd_1752451527967_e3e5db07.png"

// ValidateTimeout bounds a single image check.
const ValidateTimeout = 5 * time.Second

var placeholderPatterns = []string{
	"68619901175d7c6ee1f37cfd_1752385313567_413e1cb6.png",
	"68619901175d7c6ee1f37cfd_1752447078293_bb2808f7.png",
	"68619901175d7c6ee1f37cfd_1752447463013_42820a5d.png",
	"68619901175d7c6ee1f37cfd_1752448135739_732005f4.png",
	"placeholder",
	"no-image",
	"default-image",
}

// IsPlaceholder reports whether u is empty or one of the known stock images.
func IsPlaceholder(u string) bool {
	if u == "" {
		return true
	}
	for _, p := range placeholderPatterns {
		if strings.Contains(u, p) {
			return true
		}
	}
	return false
}

// Candidate is what an image resolver gets to work with.
type Candidate struct {
	Name     string
	Photos   []domain.PhotoRef
	ImageURL string
}

// CandidateFor builds the resolver input for a place.
func CandidateFor(p domain.Place) Candidate {
	return Candidate{Name: p.Name, Photos: p.Photos, ImageURL: p.Image}
}

// Resolver is one step of the image chain. ok is false when the step has
// nothing usable and the next step should run.
type Resolver interface {
	Resolve(ctx context.Context, c Candidate) (url string, ok bool)
}

// Validator checks that a URL points at a real, loadable image.
type Validator interface {
	Validate(ctx context.Context, url string) bool
}

// PhotoSource turns a photo reference name into an image URL.
// *places.Client satisfies it.
type PhotoSource interface {
	PhotoURI(ctx context.Context, photoName string) (string, error)
}

// PhotoResolver tries each photo reference in order; the first that validates wins.
type PhotoResolver struct {
	Source    PhotoSource
	Validator Validator
}

func (r PhotoResolver) Resolve(ctx context.Context, c Candidate) (string, bool) {
	for _, p := range c.Photos {
		if p.Name == "" {
			continue
		}
		if ctx.Err() != nil {
			return "", false
		}
		uri, err := r.Source.PhotoURI(ctx, p.Name)
		if err != nil {
			continue
		}
		if r.Validator.Validate(ctx, uri) {
			return uri, true
		}
	}
	return "", false
}

// ExistingResolver keeps an image URL the place already had, if it is real.
type ExistingResolver struct {
	Validator Validator
}

func (r ExistingResolver) Resolve(ctx context.Context, c Candidate) (string, bool) {
	if IsPlaceholder(c.ImageURL) {
		return "", false
	}
	if r.Validator.Validate(ctx, c.ImageURL) {
		return c.ImageURL, true
	}
	return "", false
}

// ImageChain runs resolvers in order and falls back to a fixed URL.
type ImageChain struct {
	Resolvers []Resolver
	Fallback  string
}

// NewImageChain builds the standard photo, then existing URL, then fallback chain.
func NewImageChain(src PhotoSource, v Validator, fallback string) *ImageChain {
	if fallback == "" {
		fallback = FallbackImageURL
	}
	return &ImageChain{
		Resolvers: []Resolver{
			PhotoResolver{Source: src, Validator: v},
			ExistingResolver{Validator: v},
		},
		Fallback: fallback,
	}
}

// Resolve always returns a URL.
func (c *ImageChain) Resolve(ctx context.Context, cand Candidate) string {
	for _, r := range c.Resolvers {
		if u, ok := r.Resolve(ctx, cand); ok {
			return u
		}
	}
	return c.Fallback
}

// HTTPValidator fetches the image and checks status, content type and, for
// formats it can decode, that the image is larger than 1x1.
type HTTPValidator struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPValidator returns a validator using client, or a default one when nil.
func NewHTTPValidator(client *http.Client) *HTTPValidator {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPValidator{client: client, timeout: ValidateTimeout}
}

func (v *HTTPValidator) Validate(ctx context.Context, u string) bool {
	if IsPlaceholder(u) {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return false
	}

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, 1<<20))
	if errors.Is(err, image.ErrFormat) {
		// No registered decoder (webp, avif); trust the content type.
		return true
	}
	if err != nil {
		return false
	}
	return cfg.Width > 1 && cfg.Height > 1
}

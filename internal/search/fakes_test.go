package search_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/pkordes/maple-planner/internal/places"
	"github.com/pkordes/maple-planner/internal/search"
)

// fakeSearcher answers text queries from a canned map keyed by query text.
// Queries not in the map return an empty page.
type fakeSearcher struct {
	mu        sync.Mutex
	responses map[string]places.SearchResponse
	failures  map[string]error
	calls     []places.TextQuery
	onCall    func(q places.TextQuery)
}

var _ search.TextSearcher = (*fakeSearcher)(nil)

func (f *fakeSearcher) SearchText(ctx context.Context, q places.TextQuery) (places.SearchResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	hook := f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(q)
	}
	if err := ctx.Err(); err != nil {
		return places.SearchResponse{}, err
	}
	if err, ok := f.failures[q.Query]; ok {
		return places.SearchResponse{}, err
	}
	return f.responses[q.Query], nil
}

func (f *fakeSearcher) queries() []places.TextQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]places.TextQuery, len(f.calls))
	copy(out, f.calls)
	return out
}

// stubImages returns a URL derived from the first photo, or the fallback.
type stubImages struct{}

func (stubImages) Resolve(_ context.Context, c search.Candidate) string {
	if len(c.Photos) > 0 {
		return "https://img.example/" + c.Photos[0].Name
	}
	return search.FallbackImageURL
}

// validatorFunc adapts a func to search.Validator.
type validatorFunc func(ctx context.Context, url string) bool

func (f validatorFunc) Validate(ctx context.Context, url string) bool { return f(ctx, url) }

// photoSourceFunc adapts a func to search.PhotoSource.
type photoSourceFunc func(ctx context.Context, name string) (string, error)

func (f photoSourceFunc) PhotoURI(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

var errUpstream = errors.New("upstream exploded")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func named(id, name, address string, types ...string) places.Result {
	r := places.Result{
		ID:               id,
		DisplayName:      &places.LocalizedText{Text: name},
		FormattedAddress: address,
	}
	if len(types) > 0 {
		r.Types = types
	}
	return r
}

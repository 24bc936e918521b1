package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/places"
)

// imageWorkers bounds concurrent image resolution within one search.
const imageWorkers = 4

// TextSearcher is the subset of *places.Client the aggregator calls.
type TextSearcher interface {
	SearchText(ctx context.Context, q places.TextQuery) (places.SearchResponse, error)
}

// ImageResolver picks an image URL for a place. *ImageChain satisfies it.
type ImageResolver interface {
	Resolve(ctx context.Context, c Candidate) string
}

// Observer records aggregate search outcomes. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveSearch(category string, n int)
}

// Request is one aggregated search. Seen is read, never written.
type Request struct {
	Location    string
	Category    domain.Category
	NextPage    bool
	StoredToken string
	Seen        map[string]bool
}

// Result is the outcome of one aggregated search.
type Result struct {
	Places        []domain.Place
	NextPageToken string
}

// Aggregator fans a location out over a category's canned queries.
type Aggregator struct {
	api      TextSearcher
	images   ImageResolver
	logger   *slog.Logger
	observer Observer
}

// NewAggregator builds an Aggregator. observer may be nil.
func NewAggregator(api TextSearcher, images ImageResolver, logger *slog.Logger, observer Observer) *Aggregator {
	return &Aggregator{api: api, images: images, logger: logger, observer: observer}
}

// Search runs every query for the request's category in order and returns
// accepted, de-duplicated places with images resolved.
//
// A failing query is logged and contributes nothing. The only errors returned
// are a validation error for an empty location and the context's error when
// the caller gave up, in which case partial results are discarded.
func (a *Aggregator) Search(ctx context.Context, req Request) (Result, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return Result{}, fmt.Errorf("search.Aggregator.Search: %w: location is required", domain.ErrValidation)
	}
	category := domain.ParseCategory(string(req.Category))

	seen := make(map[string]bool, len(req.Seen))
	for id := range req.Seen {
		seen[id] = true
	}

	res := Result{NextPageToken: req.StoredToken}
	accepted := []domain.Place{}

	for i, q := range Queries(category, location) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		tq := places.TextQuery{Query: q}
		if i == 0 && req.NextPage && req.StoredToken != "" {
			tq.PageToken = req.StoredToken
		}

		resp, err := a.api.SearchText(ctx, tq)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			a.logger.WarnContext(ctx, "place query failed", "query", q, "error", err)
			continue
		}
		if i == 0 {
			res.NextPageToken = resp.NextPageToken
		}

		for _, r := range resp.Places {
			if !Accept(r) || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			accepted = append(accepted, ToPlace(r, category))
		}
	}

	if err := a.resolveImages(ctx, accepted); err != nil {
		return Result{}, err
	}

	if a.observer != nil {
		a.observer.ObserveSearch(string(category), len(accepted))
	}
	a.logger.DebugContext(ctx, "search complete",
		"location", location, "category", category, "results", len(accepted))

	res.Places = accepted
	return res, nil
}

// resolveImages fills Image on every place in place, keeping order.
func (a *Aggregator) resolveImages(ctx context.Context, ps []domain.Place) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)
	for i := range ps {
		g.Go(func() error {
			ps[i].Image = a.images.Resolve(gctx, CandidateFor(ps[i]))
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// Explore searches every explore category concurrently and returns the union
// in category order with cross-category duplicates removed. Cancelling ctx, or
// any one search failing, cancels the rest.
func (a *Aggregator) Explore(ctx context.Context, location string) ([]domain.Place, error) {
	results := make([][]domain.Place, len(domain.ExploreCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range domain.ExploreCategories {
		g.Go(func() error {
			r, err := a.Search(gctx, Request{Location: location, Category: c})
			if err != nil {
				return err
			}
			results[i] = r.Places
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search.Aggregator.Explore: %w", err)
	}

	seen := map[string]bool{}
	all := []domain.Place{}
	for _, rs := range results {
		for _, p := range rs {
			if seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			all = append(all, p)
		}
	}
	return all, nil
}

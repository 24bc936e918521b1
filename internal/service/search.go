package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/places"
	"github.com/pkordes/maple-planner/internal/search"
)

// UnknownPlaceName is shown for a place whose details carry no display name.
const UnknownPlaceName = "Unknown Place"

// Aggregate runs aggregated place searches. *search.Aggregator satisfies it.
type Aggregate interface {
	Search(ctx context.Context, req search.Request) (search.Result, error)
	Explore(ctx context.Context, location string) ([]domain.Place, error)
}

// PlaceLookup fetches a single place. *places.Client satisfies it.
type PlaceLookup interface {
	Details(ctx context.Context, placeID string) (places.Result, error)
}

// SupersessionObserver counts discarded searches. *metrics.Metrics satisfies it.
type SupersessionObserver interface {
	ObserveSuperseded()
}

// QueryInput is one search request against a session.
type QueryInput struct {
	Location string
	Category string
	NextPage bool
}

// SearchService owns the per-client search sessions. A session remembers
// which places it has shown, the continuation token and the "show N of M"
// cursor; the coordinator makes sure only its latest query is committed.
type SearchService struct {
	agg      Aggregate
	store    search.Store
	coord    *search.Coordinator
	lookup   PlaceLookup
	images   search.ImageResolver
	observer SupersessionObserver
	logger   *slog.Logger
	now      func() time.Time
}

// NewSearchService constructs a SearchService. observer may be nil.
func NewSearchService(agg Aggregate, store search.Store, coord *search.Coordinator, lookup PlaceLookup,
	images search.ImageResolver, observer SupersessionObserver, logger *slog.Logger) *SearchService {
	return &SearchService{
		agg:      agg,
		store:    store,
		coord:    coord,
		lookup:   lookup,
		images:   images,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSession starts an empty idle session.
func (s *SearchService) CreateSession(ctx context.Context) (search.Page, error) {
	sess := search.NewSession(uuid.NewString(), s.now())
	if err := s.store.Put(ctx, sess); err != nil {
		return search.Page{}, fmt.Errorf("service.SearchService.CreateSession: %w", err)
	}
	return sess.Page(), nil
}

// GetSession returns the session's current page.
func (s *SearchService) GetSession(ctx context.Context, id string) (search.Page, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return search.Page{}, fmt.Errorf("service.SearchService.GetSession: %w", err)
	}
	return sess.Page(), nil
}

// DeleteSession discards a session and cancels any query still running on it.
func (s *SearchService) DeleteSession(ctx context.Context, id string) error {
	s.coord.Forget(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.SearchService.DeleteSession: %w", err)
	}
	return nil
}

// Query runs a search on a session.
//
// Asking again for the query the session already holds, without asking for
// the next page, changes nothing and returns the current page. A new location
// or category starts the session over. A next-page request continues from the
// stored token and appends to the stored results.
//
// If another query starts on the same session before this one finishes, this
// one is cancelled and returns domain.ErrSuperseded; its results are dropped.
func (s *SearchService) Query(ctx context.Context, id string, in QueryInput) (search.Page, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return search.Page{}, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	category := domain.ParseCategory(in.Category)

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return search.Page{}, fmt.Errorf("service.SearchService.Query: %w", err)
	}

	same := sess.SameQuery(location, category)
	if same && !in.NextPage && sess.Status == search.StatusDone {
		return sess.Page(), nil
	}
	nextPage := in.NextPage && same

	qctx, ticket := s.coord.Begin(ctx, id)
	defer s.coord.End(ticket)

	working := sess.Clone()
	working.Prepare(location, category)
	if err := s.coord.Commit(ticket, func() error { return s.store.Put(ctx, working) }); err != nil {
		return search.Page{}, s.superseded(ctx, "service.SearchService.Query", err)
	}

	res, err := s.agg.Search(qctx, search.Request{
		Location:    location,
		Category:    category,
		NextPage:    nextPage,
		StoredToken: working.NextPageToken,
		Seen:        working.Seen,
	})
	if err != nil {
		if !s.coord.Current(ticket) {
			return search.Page{}, s.superseded(ctx, "service.SearchService.Query", domain.ErrSuperseded)
		}
		// Put the session back the way it was so it does not stay "searching".
		_ = s.coord.Commit(ticket, func() error { return s.store.Put(context.WithoutCancel(ctx), sess) })
		return search.Page{}, fmt.Errorf("service.SearchService.Query: %w", err)
	}

	err = s.coord.Commit(ticket, func() error {
		working.Commit(res, nextPage, s.now())
		return s.store.Put(ctx, working)
	})
	if err != nil {
		return search.Page{}, s.superseded(ctx, "service.SearchService.Query", err)
	}
	return working.Page(), nil
}

// More reveals the next page of stored results without calling the places API.
// The read and write happen under the coordinator lock, so a query committing
// at the same time is never overwritten with an older snapshot.
func (s *SearchService) More(ctx context.Context, id string) (search.Page, error) {
	var page search.Page
	err := s.coord.Update(func() error {
		sess, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		sess.LoadMore(s.now())
		if err := s.store.Put(ctx, sess); err != nil {
			return err
		}
		page = sess.Page()
		return nil
	})
	if err != nil {
		return search.Page{}, fmt.Errorf("service.SearchService.More: %w", err)
	}
	return page, nil
}

// Explore searches every explore category for location at once and stores the
// combined result in a session so More can page through it. An empty id
// creates a new session.
func (s *SearchService) Explore(ctx context.Context, id, location string) (search.Page, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return search.Page{}, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}

	var sess *search.Session
	if id == "" {
		sess = search.NewSession(uuid.NewString(), s.now())
	} else {
		got, err := s.store.Get(ctx, id)
		if err != nil {
			return search.Page{}, fmt.Errorf("service.SearchService.Explore: %w", err)
		}
		sess = got
	}

	qctx, ticket := s.coord.Begin(ctx, sess.ID)
	defer s.coord.End(ticket)

	all, err := s.agg.Explore(qctx, location)
	if err != nil {
		if !s.coord.Current(ticket) {
			return search.Page{}, s.superseded(ctx, "service.SearchService.Explore", domain.ErrSuperseded)
		}
		return search.Page{}, fmt.Errorf("service.SearchService.Explore: %w", err)
	}

	sess.Location = location
	sess.Category = domain.CategoryAll
	sess.Seen = map[string]bool{}
	sess.NextPageToken = ""
	err = s.coord.Commit(ticket, func() error {
		sess.Commit(search.Result{Places: all}, false, s.now())
		return s.store.Put(ctx, sess)
	})
	if err != nil {
		return search.Page{}, s.superseded(ctx, "service.SearchService.Explore", err)
	}
	return sess.Page(), nil
}

// Details fetches one place with its image resolved. Unlike search results,
// a missing rating stays zero and a missing name reads "Unknown Place".
func (s *SearchService) Details(ctx context.Context, placeID string) (domain.Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return domain.Place{}, fmt.Errorf("%w: place id is required", domain.ErrValidation)
	}

	r, err := s.lookup.Details(ctx, placeID)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.SearchService.Details: %w", upstreamError(err))
	}

	p := search.ToPlace(r, "")
	p.Rating = 0
	if r.Rating != nil {
		p.Rating = *r.Rating
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = UnknownPlaceName
	}
	for _, c := range r.AddressComponents {
		p.AddressComponents = append(p.AddressComponents, domain.AddressComponent{
			LongText:  c.LongText,
			ShortText: c.ShortText,
			Types:     c.Types,
		})
	}
	p.Image = s.images.Resolve(ctx, search.CandidateFor(p))
	return p, nil
}

func (s *SearchService) superseded(ctx context.Context, op string, err error) error {
	if errors.Is(err, domain.ErrSuperseded) {
		if s.observer != nil {
			s.observer.ObserveSuperseded()
		}
		s.logger.DebugContext(ctx, "search superseded", "op", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// upstreamError classifies a places API failure for the HTTP layer.
func upstreamError(err error) error {
	var apiErr *places.APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	switch apiErr.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
	}
	return fmt.Errorf("%w: %s", domain.ErrUpstream, apiErr.Message)
}

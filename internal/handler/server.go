// Package handler implements the HTTP handlers for the Maple Planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, search.go, etc.) but share the same Server struct
// so they can access its dependencies. NewRouter mounts them on chi.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/locations"
	"github.com/pkordes/maple-planner/internal/metrics"
	"github.com/pkordes/maple-planner/internal/middleware"
	"github.com/pkordes/maple-planner/internal/search"
	"github.com/pkordes/maple-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TripItemServicer defines the operations the trip item handlers depend on.
type TripItemServicer interface {
	Create(ctx context.Context, userID uuid.UUID, item domain.TripItem) (domain.TripItem, error)
	CreateFromPlace(ctx context.Context, userID, tripID uuid.UUID, p domain.Place, itemType domain.ItemType) (domain.TripItem, error)
	List(ctx context.Context, userID, tripID uuid.UUID, f service.ItemFilter) ([]domain.TripItem, error)
	Update(ctx context.Context, userID, tripID, itemID uuid.UUID, patch domain.TripItemPatch) (domain.TripItem, error)
	Schedule(ctx context.Context, userID, tripID, itemID uuid.UUID, day int, at string) (domain.TripItem, error)
	Unschedule(ctx context.Context, userID, tripID, itemID uuid.UUID) (domain.TripItem, error)
	Delete(ctx context.Context, userID, tripID, itemID uuid.UUID) error
}

// AuthServicer defines the account and session operations.
type AuthServicer interface {
	Signup(ctx context.Context, email, password, name string) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	Logout(ctx context.Context, p domain.Principal) error
	Refresh(ctx context.Context, refreshToken string) (service.AuthResult, error)
	CurrentUser(ctx context.Context, p domain.Principal) (domain.User, error)
}

// ProfileServicer defines the profile operations.
type ProfileServicer interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.Profile, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// SavedPlaceServicer defines the saved-place operations.
type SavedPlaceServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.SavedPlace, error)
	Add(ctx context.Context, p domain.SavedPlace) (domain.SavedPlace, error)
	Remove(ctx context.Context, userID, id uuid.UUID) error
}

// SearchServicer defines the place search operations.
type SearchServicer interface {
	CreateSession(ctx context.Context) (search.Page, error)
	DeleteSession(ctx context.Context, id string) error
	Query(ctx context.Context, id string, in service.QueryInput) (search.Page, error)
	More(ctx context.Context, id string) (search.Page, error)
	Explore(ctx context.Context, id, location string) (search.Page, error)
	Details(ctx context.Context, placeID string) (domain.Place, error)
}

// LocationDirectory answers province and city lookups. *locations.Directory satisfies it.
type LocationDirectory interface {
	Provinces() []locations.Province
	Cities(provinceID string) ([]string, error)
	ProvinceByCity(city string) (locations.Province, error)
}

// ExportServicer defines the data export operation.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps lists everything the Server needs. Nil fields are allowed in tests
// that never reach the corresponding routes.
type Deps struct {
	Trips       TripServicer
	Items       TripItemServicer
	Auth        AuthServicer
	Profiles    ProfileServicer
	SavedPlaces SavedPlaceServicer
	Search      SearchServicer
	Locations   LocationDirectory
	Export      ExportServicer
	DB          Pinger
	Logger      *slog.Logger
}

// Server holds the handler dependencies.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips       TripServicer
	items       TripItemServicer
	auth        AuthServicer
	profiles    ProfileServicer
	savedPlaces SavedPlaceServicer
	search      SearchServicer
	locations   LocationDirectory
	export      ExportServicer
	db          Pinger
	logger      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		trips:       d.Trips,
		items:       d.Items,
		auth:        d.Auth,
		profiles:    d.Profiles,
		savedPlaces: d.SavedPlaces,
		search:      d.Search,
		locations:   d.Locations,
		export:      d.Export,
		db:          d.DB,
		logger:      logger,
	}
}

// RouterOptions configures the cross-cutting middleware around the routes.
type RouterOptions struct {
	// Authenticator verifies bearer tokens on the protected routes. Required.
	Authenticator middleware.Authenticator
	// CORSOrigins are the allowed browser origins.
	CORSOrigins []string
	// MaxBodyBytes caps request bodies; zero disables the cap.
	MaxBodyBytes int64
	// Limiter throttles the search and place routes when set.
	Limiter *middleware.RateLimiter
	// Metrics instruments every request and serves /metrics when set.
	Metrics *metrics.Metrics
	// OpenAPI is served verbatim at /openapi.yaml when non-empty.
	OpenAPI []byte
}

// NewRouter mounts every route on a chi router.
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(opts.CORSOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
	}
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(opts.MaxBodyBytes))
	}

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/healthz", s.GetHealth)
	r.Get("/healthz/db", s.GetHealthDB)
	if len(opts.OpenAPI) > 0 {
		r.Get("/openapi.yaml", serveOpenAPI(opts.OpenAPI))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.Signup)
		r.Post("/login", s.Login)
		r.Post("/refresh", s.RefreshSession)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(opts.Authenticator))
			r.Post("/logout", s.Logout)
			r.Get("/session", s.GetSession)
		})
	})

	r.Route("/locations", func(r chi.Router) {
		r.Get("/provinces", s.ListProvinces)
		r.Get("/provinces/{id}/cities", s.ListCities)
		r.Get("/lookup", s.LookupProvince)
	})

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Handler)
		}
		r.Post("/search/sessions", s.CreateSearchSession)
		r.Delete("/search/sessions/{id}", s.DeleteSearchSession)
		r.Post("/search/sessions/{id}/query", s.QuerySearchSession)
		r.Post("/search/sessions/{id}/more", s.MoreSearchResults)
		r.Get("/search/explore", s.Explore)
		r.Get("/places/{placeId}", s.GetPlace)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.Authenticator))

		r.Get("/profile", s.GetProfile)
		r.Put("/profile", s.UpsertProfile)
		r.Delete("/profile", s.DeleteProfile)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/{tripId}", s.GetTrip)
			r.Patch("/{tripId}", s.UpdateTrip)
			r.Delete("/{tripId}", s.DeleteTrip)

			r.Get("/{tripId}/items", s.ListTripItems)
			r.Post("/{tripId}/items", s.CreateTripItem)
			r.Post("/{tripId}/items/from-place", s.CreateTripItemFromPlace)
			r.Patch("/{tripId}/items/{itemId}", s.UpdateTripItem)
			r.Delete("/{tripId}/items/{itemId}", s.DeleteTripItem)
			r.Put("/{tripId}/items/{itemId}/schedule", s.ScheduleTripItem)
			r.Delete("/{tripId}/items/{itemId}/schedule", s.UnscheduleTripItem)
		})

		r.Get("/saved-places", s.ListSavedPlaces)
		r.Post("/saved-places", s.AddSavedPlace)
		r.Delete("/saved-places/{id}", s.RemoveSavedPlace)

		r.Get("/export", s.GetExport)
	})

	return r
}

func serveOpenAPI(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(doc)
	}
}

// principal returns the authenticated caller. RequireAuth guarantees it is
// present on every protected route.
func principal(r *http.Request) domain.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}

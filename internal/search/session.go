package search

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/maple-planner/internal/domain"
)

// PageSize is how many more results each page reveals.
const PageSize = 10

// Status is the coarse progress of a session's latest query.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusSearching Status = "searching"
	StatusDone      Status = "done"
)

// Session is the per-client search state. It replaces process-wide globals:
// every client owns one, and nothing is shared between sessions.
type Session struct {
	ID            string          `json:"id"`
	Location      string          `json:"location"`
	Category      domain.Category `json:"category"`
	Seen          map[string]bool `json:"seen"`
	NextPageToken string          `json:"next_page_token,omitempty"`
	Results       []domain.Place  `json:"results"`
	Shown         int             `json:"shown"`
	Status        Status          `json:"status"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewSession returns an empty idle session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Seen:      map[string]bool{},
		Results:   []domain.Place{},
		Status:    StatusIdle,
		UpdatedAt: now,
	}
}

// Reset clears seen ids, continuation token, results and cursor.
func (s *Session) Reset() {
	s.Seen = map[string]bool{}
	s.NextPageToken = ""
	s.Results = []domain.Place{}
	s.Shown = 0
	s.Status = StatusIdle
}

// Clone returns a deep copy so stores never hand out shared state.
func (s *Session) Clone() *Session {
	c := *s
	c.Seen = maps.Clone(s.Seen)
	if c.Seen == nil {
		c.Seen = map[string]bool{}
	}
	c.Results = slices.Clone(s.Results)
	if c.Results == nil {
		c.Results = []domain.Place{}
	}
	return &c
}

// SameQuery reports whether location and category match the session's current query.
func (s *Session) SameQuery(location string, category domain.Category) bool {
	return strings.EqualFold(strings.TrimSpace(location), s.Location) && category == s.Category
}

// Prepare readies the session for a query. A different location or category
// starts over; a next-page request on the same query keeps everything.
func (s *Session) Prepare(location string, category domain.Category) {
	location = strings.TrimSpace(location)
	if !strings.EqualFold(location, s.Location) || category != s.Category {
		s.Reset()
	}
	s.Location = location
	s.Category = category
	s.Status = StatusSearching
}

// Commit stores the outcome of a query. A next-page result is appended and
// reveals one more page; a fresh result replaces the list and shows the first page.
func (s *Session) Commit(r Result, nextPage bool, now time.Time) {
	for _, p := range r.Places {
		s.Seen[p.PlaceID] = true
	}
	if nextPage {
		s.Results = append(s.Results, r.Places...)
		s.Shown = min(s.Shown+PageSize, len(s.Results))
	} else {
		s.Results = slices.Clone(r.Places)
		if s.Results == nil {
			s.Results = []domain.Place{}
		}
		s.Shown = min(PageSize, len(s.Results))
	}
	s.NextPageToken = r.NextPageToken
	s.Status = StatusDone
	s.UpdatedAt = now
}

// LoadMore reveals up to PageSize more stored results. It never calls the network.
func (s *Session) LoadMore(now time.Time) {
	s.Shown = min(s.Shown+PageSize, len(s.Results))
	s.UpdatedAt = now
}

// Page is the visible slice of a session.
type Page struct {
	SessionID   string
	Location    string
	Category    domain.Category
	Places      []domain.Place
	Shown       int
	Total       int
	HasMore     bool
	HasNextPage bool
	Status      Status
}

// Page returns what a client should currently display.
func (s *Session) Page() Page {
	shown := min(s.Shown, len(s.Results))
	return Page{
		SessionID:   s.ID,
		Location:    s.Location,
		Category:    s.Category,
		Places:      slices.Clone(s.Results[:shown]),
		Shown:       shown,
		Total:       len(s.Results),
		HasMore:     shown < len(s.Results),
		HasNextPage: s.NextPageToken != "",
		Status:      s.Status,
	}
}

package search

import (
	"context"
	"sync"

	"github.com/pkordes/maple-planner/internal/domain"
)

// Ticket identifies one in-flight query on one session.
type Ticket struct {
	SessionID  string
	Generation uint64
}

type flight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Coordinator makes the most recent query on a session the only one whose
// results count. Starting a query cancels the previous one on the same session.
//
// A session has an entry only while a query runs on it. Generations come from
// one counter shared by all sessions, so a ticket issued before an entry was
// dropped never matches a later one.
type Coordinator struct {
	mu      sync.Mutex
	next    uint64
	flights map[string]flight
}

// NewCoordinator returns an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{flights: map[string]flight{}}
}

// Begin registers a new query for sessionID, cancels any query already in
// flight for it, and returns a context for the new query.
// The caller must call End with the returned ticket.
func (c *Coordinator) Begin(parent context.Context, sessionID string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.flights[sessionID]; ok {
		f.cancel()
	}
	c.next++
	c.flights[sessionID] = flight{generation: c.next, cancel: cancel}
	return ctx, Ticket{SessionID: sessionID, Generation: c.next}
}

// Current reports whether t is still the latest query for its session.
func (c *Coordinator) Current(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(t)
}

func (c *Coordinator) current(t Ticket) bool {
	f, ok := c.flights[t.SessionID]
	return ok && f.generation == t.Generation
}

// Commit runs fn only while t is current, holding the lock so no newer query
// can start in between. It returns domain.ErrSuperseded otherwise.
func (c *Coordinator) Commit(t Ticket, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return domain.ErrSuperseded
	}
	return fn()
}

// Update runs fn under the lock Commit holds. Session writes that are not
// part of a query go through here so they never interleave with a commit.
func (c *Coordinator) Update(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn()
}

// End releases the ticket's context and drops the session's entry unless a
// newer query has taken it over. It is safe to call after supersession.
func (c *Coordinator) End(t Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(t) {
		return
	}
	c.flights[t.SessionID].cancel()
	delete(c.flights, t.SessionID)
}

// Forget drops all bookkeeping for a session, cancelling any query in flight.
func (c *Coordinator) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.flights[sessionID]; ok {
		f.cancel()
	}
	delete(c.flights, sessionID)
}

// Len reports how many sessions have a query in flight.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.flights)
}

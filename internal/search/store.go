package search

import (
	"context"
	"time"
)

// Store persists sessions between requests. Get returns domain.ErrNotFound
// for unknown or expired ids. Implementations store copies: mutating a
// session returned by Get has no effect until it is Put back.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle for longer than idle and reports how many went.
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

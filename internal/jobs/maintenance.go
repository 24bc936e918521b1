package jobs

import (
	"context"
	"time"
)

// SessionPurger deletes dead auth sessions. *service.AuthService satisfies it.
type SessionPurger interface {
	PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// SearchSweeper expires idle search sessions. Every search.Store satisfies it.
type SearchSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

// VisitorSweeper forgets idle rate-limiter clients. *middleware.RateLimiter satisfies it.
type VisitorSweeper interface {
	Sweep(idle time.Duration) int
}

// Maintenance configures the housekeeping jobs. A nil dependency skips its job.
type Maintenance struct {
	Sessions SessionPurger
	// SessionRetention keeps expired or revoked sessions this long before purging.
	SessionRetention time.Duration

	Searches   SearchSweeper
	SearchIdle time.Duration

	Visitors    VisitorSweeper
	VisitorIdle time.Duration

	Now func() time.Time
}

// Register schedules every configured housekeeping job on s.
func Register(s *Scheduler, m Maintenance) error {
	if m.Now == nil {
		m.Now = time.Now
	}
	if m.Sessions != nil {
		if err := s.Add("purge-auth-sessions", "@hourly", PurgeAuthSessions(m.Sessions, m.SessionRetention, m.Now)); err != nil {
			return err
		}
	}
	if m.Searches != nil {
		if err := s.Add("sweep-search-sessions", "@every 5m", SweepSearchSessions(m.Searches, m.SearchIdle)); err != nil {
			return err
		}
	}
	if m.Visitors != nil {
		if err := s.Add("sweep-rate-limit-visitors", "@every 1m", SweepVisitors(m.Visitors, m.VisitorIdle)); err != nil {
			return err
		}
	}
	return nil
}

// PurgeAuthSessions deletes sessions that ended more than retention ago.
func PurgeAuthSessions(p SessionPurger, retention time.Duration, now func() time.Time) Task {
	return func(ctx context.Context) (int64, error) {
		return p.PurgeSessions(ctx, now().Add(-retention))
	}
}

// SweepSearchSessions removes search sessions idle for longer than idle.
func SweepSearchSessions(st SearchSweeper, idle time.Duration) Task {
	return func(ctx context.Context) (int64, error) {
		n, err := st.Sweep(ctx, idle)
		return int64(n), err
	}
}

// SweepVisitors drops rate-limiter state for clients idle longer than idle.
func SweepVisitors(v VisitorSweeper, idle time.Duration) Task {
	return func(context.Context) (int64, error) {
		return int64(v.Sweep(idle)), nil
	}
}

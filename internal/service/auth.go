package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/auth"
	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
)

// TokenIssuer signs and verifies access tokens. *auth.Issuer satisfies it.
type TokenIssuer interface {
	Issue(user domain.User, sessionID uuid.UUID) (string, time.Time, error)
	Parse(token string) (domain.Principal, error)
}

// AuthResult is what signup, login and refresh hand back to the client.
type AuthResult struct {
	User    domain.User
	Session domain.Session
}

// AuthService implements email/password accounts and token sessions.
// Error messages for credential problems use the auth.Msg* texts so the
// HTTP layer can map them to friendly wording.
type AuthService struct {
	users      repo.UserRepo
	profiles   repo.ProfileRepo
	sessions   repo.AuthSessionRepo
	tokens     TokenIssuer
	refreshTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService constructs an AuthService. Refresh sessions live for refreshTTL.
func NewAuthService(users repo.UserRepo, profiles repo.ProfileRepo, sessions repo.AuthSessionRepo,
	tokens TokenIssuer, refreshTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		profiles:   profiles,
		sessions:   sessions,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Signup creates an account and signs it in. A non-empty name also creates
// the user's profile; failing to do so is logged but does not fail the signup.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		Provider:     domain.ProviderEmail,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AuthResult{}, fmt.Errorf("%w: %s", domain.ErrConflict, auth.MsgUserExists)
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Signup: %s: %w", auth.MsgDatabaseError, err)
	}

	if name != "" {
		if _, err := s.profiles.Upsert(ctx, domain.Profile{ID: user.ID, Name: name, Email: email}); err != nil {
			s.logger.WarnContext(ctx, "profile creation failed", "user_id", user.ID, "error", err)
		}
	}

	sess, err := s.newSession(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return AuthResult{User: user, Session: sess}, nil
}

// Login checks an email and password and starts a new session.
// Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, auth.MsgInvalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, auth.MsgInvalidCredentials)
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Login: %s: %w", auth.MsgDatabaseError, err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return AuthResult{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, auth.MsgInvalidCredentials)
	}

	sess, err := s.newSession(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return AuthResult{User: user, Session: sess}, nil
}

// Logout revokes the session the caller's access token belongs to.
// Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal) error {
	if err := s.sessions.Revoke(ctx, p.SessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and checks that its session has not
// been revoked or expired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	p, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Principal{}, err
	}
	sess, err := s.sessions.GetByID(ctx, p.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: session not found", domain.ErrUnauthorized)
		}
		return domain.Principal{}, fmt.Errorf("service.AuthService.Authenticate: %w", err)
	}
	if sess.UserID != p.UserID || !sess.Active(s.now()) {
		return domain.Principal{}, fmt.Errorf("%w: session is no longer active", domain.ErrUnauthorized)
	}
	return p, nil
}

// CurrentUser returns the account behind an authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, p domain.Principal) (domain.User, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.CurrentUser: %w", err)
	}
	return user, nil
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// session is revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, fmt.Errorf("%w: refresh token is required", domain.ErrUnauthorized)
	}

	old, err := s.sessions.GetByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: unknown refresh token", domain.ErrUnauthorized)
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	if !old.Active(s.now()) {
		return AuthResult{}, fmt.Errorf("%w: refresh token expired or revoked", domain.ErrUnauthorized)
	}
	// Revoke first: of two concurrent refreshes only one wins the row.
	if err := s.sessions.Revoke(ctx, old.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: refresh token already used", domain.ErrUnauthorized)
		}
		return AuthResult{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}

	user, err := s.users.GetByID(ctx, old.UserID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	sess, err := s.newSession(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	return AuthResult{User: user, Session: sess}, nil
}

// PurgeSessions deletes sessions that expired or were revoked before cutoff.
func (s *AuthService) PurgeSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("service.AuthService.PurgeSessions: %w", err)
	}
	return n, nil
}

func (s *AuthService) newSession(ctx context.Context, user domain.User) (domain.Session, error) {
	token, hash, err := auth.NewRefreshToken()
	if err != nil {
		return domain.Session{}, err
	}
	stored, err := s.sessions.Create(ctx, domain.AuthSession{
		UserID:           user.ID,
		RefreshTokenHash: hash,
		ExpiresAt:        s.now().Add(s.refreshTTL),
	})
	if err != nil {
		return domain.Session{}, err
	}
	access, exp, err := s.tokens.Issue(user, stored.ID)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{AccessToken: access, RefreshToken: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("%w: %s", domain.ErrValidation, auth.MsgPasswordTooShort)
	}
	if len(password) > auth.MaxPasswordLength {
		return fmt.Errorf("%w: Password should be at most %d characters", domain.ErrValidation, auth.MaxPasswordLength)
	}
	return nil
}

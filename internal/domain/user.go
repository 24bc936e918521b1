package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProviderEmail is the only auth provider this service implements.
const ProviderEmail = "email"

// User is an account that can authenticate. Email is stored lower-cased.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Provider     string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the name a client should show, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Profile is the editable public profile of a user. ID equals the user's ID.
type Profile struct {
	ID             uuid.UUID
	Name           string
	Email          string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfilePatch carries a partial profile update.
type ProfilePatch struct {
	Name           *string
	ProfilePicture *string
}

// AuthSession is a refresh-token session created on signup, login or refresh.
// Only a hash of the refresh token is stored.
type AuthSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

// Active reports whether the session can still be used at time now.
func (s AuthSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Principal is the authenticated caller of a request, derived from an access token.
type Principal struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Email     string
	Name      string
	Provider  string
}

// Session is the token pair handed to a client after signup, login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

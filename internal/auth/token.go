// Package auth issues and verifies the tokens that identify a user: short-lived
// HS256 access tokens and opaque refresh tokens stored only as hashes.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/maple-planner/internal/domain"
)

const issuer = "maple-planner"

// Claims is the access token payload. Subject is the user id; SessionID ties
// the token to the refresh session that minted it so logout can revoke it.
type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Provider  string `json:"provider"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. secret must not be empty.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an access token for user bound to sessionID.
func (i *Issuer) Issue(user domain.User, sessionID uuid.UUID) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Email:     user.Email,
		Name:      user.Name,
		Provider:  user.Provider,
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.Issuer.Issue: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns the principal it names.
// Any failure is reported as domain.ErrUnauthorized.
func (i *Issuer) Parse(token string) (domain.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("auth.Issuer.Parse: %w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return domain.Principal{}, fmt.Errorf("auth.Issuer.Parse: %w: invalid token", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("auth.Issuer.Parse: %w: bad subject", domain.ErrUnauthorized)
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("auth.Issuer.Parse: %w: bad session id", domain.ErrUnauthorized)
	}

	return domain.Principal{
		UserID:    userID,
		SessionID: sessionID,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  claims.Provider,
	}, nil
}

// NewRefreshToken returns a random refresh token and the hash to store for it.
func NewRefreshToken() (token, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("auth.NewRefreshToken: %w", err)
	}
	token = hex.EncodeToString(b)
	return token, HashRefreshToken(token), nil
}

// HashRefreshToken is the SHA-256 hex digest stored in place of the token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/service"
)

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
	Name     *string             `json:"name,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// User is the wire form of an account.
type User struct {
	ID        openapi_types.UUID `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Provider  string             `json:"provider"`
	CreatedAt time.Time          `json:"created_at"`
}

// Session is the wire form of a token pair.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}

// SessionResponse is returned by GET /auth/session.
type SessionResponse struct {
	User User `json:"user"`
}

// Signup handles POST /auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var body SignupRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	var name string
	if body.Name != nil {
		name = *body.Name
	}
	res, err := s.auth.Signup(r.Context(), string(body.Email), body.Password, name)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authToResponse(res))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	res, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authToResponse(res))
}

// RefreshSession handles POST /auth/refresh.
func (s *Server) RefreshSession(w http.ResponseWriter, r *http.Request) {
	var body RefreshRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	res, err := s.auth.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authToResponse(res))
}

// Logout handles POST /auth/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), principal(r)); err != nil {
		s.authError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /auth/session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.CurrentUser(r.Context(), principal(r))
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: userToResponse(user)})
}

// --- mapping helpers --------------------------------------------------------

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.DisplayName(),
		Provider:  u.Provider,
		CreatedAt: u.CreatedAt,
	}
}

func authToResponse(res service.AuthResult) AuthResponse {
	return AuthResponse{
		User: userToResponse(res.User),
		Session: Session{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
			TokenType:    "bearer",
			ExpiresAt:    res.Session.ExpiresAt,
		},
	}
}

package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/maple-planner/internal/auth"
	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/handler"
	"github.com/pkordes/maple-planner/internal/service"
)

// mockAuthServicer is a test double for handler.AuthServicer.
type mockAuthServicer struct {
	signup      func(ctx context.Context, email, password, name string) (service.AuthResult, error)
	login       func(ctx context.Context, email, password string) (service.AuthResult, error)
	logout      func(ctx context.Context, p domain.Principal) error
	refresh     func(ctx context.Context, token string) (service.AuthResult, error)
	currentUser func(ctx context.Context, p domain.Principal) (domain.User, error)
}

func (m *mockAuthServicer) Signup(ctx context.Context, email, password, name string) (service.AuthResult, error) {
	return m.signup(ctx, email, password, name)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Logout(ctx context.Context, p domain.Principal) error {
	return m.logout(ctx, p)
}
func (m *mockAuthServicer) Refresh(ctx context.Context, token string) (service.AuthResult, error) {
	return m.refresh(ctx, token)
}
func (m *mockAuthServicer) CurrentUser(ctx context.Context, p domain.Principal) (domain.User, error) {
	return m.currentUser(ctx, p)
}

// compile-time check: mockAuthServicer must satisfy handler.AuthServicer.
var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func authResultFixture() service.AuthResult {
	return service.AuthResult{
		User: domain.User{
			ID:        testUser.UserID,
			Email:     testUser.Email,
			Name:      testUser.Name,
			Provider:  domain.ProviderEmail,
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Session: domain.Session{
			AccessToken:  "access.jwt",
			RefreshToken: "refresh-opaque",
			ExpiresAt:    time.Date(2025, 1, 2, 3, 19, 5, 0, time.UTC),
		},
	}
}

func authHandler(svc handler.AuthServicer) http.Handler {
	return newHTTPHandler(handler.Deps{Auth: svc})
}

func publicRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ---- POST /auth/signup -----------------------------------------------------

func TestSignup_201(t *testing.T) {
	var gotEmail, gotName string
	svc := &mockAuthServicer{
		signup: func(_ context.Context, email, _, name string) (service.AuthResult, error) {
			gotEmail, gotName = email, name
			return authResultFixture(), nil
		},
	}

	rec := serve(authHandler(svc), publicRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email":    "traveller@example.com",
		"password": "maple-leaf",
		"name":     "Sam",
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "traveller@example.com", gotEmail)
	assert.Equal(t, "Sam", gotName)
	resp := decode[handler.AuthResponse](t, rec)
	assert.Equal(t, "access.jwt", resp.Session.AccessToken)
	assert.Equal(t, "refresh-opaque", resp.Session.RefreshToken)
	assert.Equal(t, "bearer", resp.Session.TokenType)
	assert.Equal(t, testUser.UserID, resp.User.ID)
}

func TestSignup_422_MalformedEmail(t *testing.T) {
	rec := serve(authHandler(&mockAuthServicer{}), publicRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email":    "not an email",
		"password": "maple-leaf",
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSignup_FriendlyMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "duplicate email",
			err:     fmt.Errorf("%w: %s", domain.ErrConflict, auth.MsgUserExists),
			status:  http.StatusConflict,
			code:    "conflict",
			message: "An account with this email already exists. Please try logging in.",
		},
		{
			name:    "short password",
			err:     fmt.Errorf("%w: %s", domain.ErrValidation, auth.MsgPasswordTooShort),
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "Password must be at least 6 characters long.",
		},
		{
			name:    "database down",
			err:     fmt.Errorf("service.AuthService.Signup: %s: %w", auth.MsgDatabaseError, errors.New("conn refused")),
			status:  http.StatusInternalServerError,
			code:    "internal",
			message: "Database connection error. Please try again later.",
		},
		{
			name:    "other validation passes through",
			err:     fmt.Errorf("%w: a valid email is required", domain.ErrValidation),
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "a valid email is required",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAuthServicer{
				signup: func(_ context.Context, _, _, _ string) (service.AuthResult, error) {
					return service.AuthResult{}, tc.err
				},
			}

			rec := serve(authHandler(svc), publicRequest(t, http.MethodPost, "/auth/signup", map[string]any{
				"email":    "traveller@example.com",
				"password": "maple",
			}))

			require.Equal(t, tc.status, rec.Code)
			body := decode[handler.ErrorResponse](t, rec)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.Equal(t, tc.message, body.Error.Message)
		})
	}
}

// ---- POST /auth/login ------------------------------------------------------

func TestLogin_200(t *testing.T) {
	svc := &mockAuthServicer{
		login: func(_ context.Context, email, password string) (service.AuthResult, error) {
			assert.Equal(t, "Traveller@Example.com", email, "normalisation belongs to the service")
			assert.Equal(t, "maple-leaf", password)
			return authResultFixture(), nil
		},
	}

	rec := serve(authHandler(svc), publicRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "Traveller@Example.com",
		"password": "maple-leaf",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_401_FriendlyMessage(t *testing.T) {
	svc := &mockAuthServicer{
		login: func(_ context.Context, _, _ string) (service.AuthResult, error) {
			return service.AuthResult{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, auth.MsgInvalidCredentials)
		},
	}

	rec := serve(authHandler(svc), publicRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "traveller@example.com",
		"password": "wrong",
	}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "Invalid email or password. Please check your credentials.", body.Error.Message)
}

func TestLogin_422_EmptyBody(t *testing.T) {
	rec := serve(authHandler(&mockAuthServicer{}), publicRequest(t, http.MethodPost, "/auth/login", nil))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "request body is required", body.Error.Message)
}

// ---- POST /auth/refresh ----------------------------------------------------

func TestRefresh(t *testing.T) {
	svc := &mockAuthServicer{
		refresh: func(_ context.Context, token string) (service.AuthResult, error) {
			if token != "refresh-opaque" {
				return service.AuthResult{}, fmt.Errorf("%w: unknown refresh token", domain.ErrUnauthorized)
			}
			return authResultFixture(), nil
		},
	}
	h := authHandler(svc)

	rec := serve(h, publicRequest(t, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "refresh-opaque"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, publicRequest(t, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "stale"}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "unknown refresh token", body.Error.Message)
}

// ---- POST /auth/logout, GET /auth/session ----------------------------------

func TestLogout_RevokesCallersSession(t *testing.T) {
	var got domain.Principal
	svc := &mockAuthServicer{
		logout: func(_ context.Context, p domain.Principal) error {
			got = p
			return nil
		},
	}

	rec := serve(authHandler(svc), authedRequest(t, http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testUser.SessionID, got.SessionID)
}

func TestLogout_401_WithoutToken(t *testing.T) {
	rec := serve(authHandler(&mockAuthServicer{}), publicRequest(t, http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSession_200(t *testing.T) {
	svc := &mockAuthServicer{
		currentUser: func(_ context.Context, p domain.Principal) (domain.User, error) {
			return domain.User{ID: p.UserID, Email: p.Email, Provider: p.Provider}, nil
		},
	}

	rec := serve(authHandler(svc), authedRequest(t, http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.SessionResponse](t, rec)
	assert.Equal(t, testUser.Email, resp.User.Email)
	assert.Equal(t, testUser.Email, resp.User.Name, "display name falls back to the email")
}

package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/maple-planner/internal/auth"
	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/repo"
	"github.com/pkordes/maple-planner/internal/service"
)

// ---- mock repos ------------------------------------------------------------

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockProfileRepo struct {
	get    func(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	upsert func(ctx context.Context, p domain.Profile) (domain.Profile, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProfileRepo) Get(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	return m.get(ctx, id)
}
func (m *mockProfileRepo) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	return m.upsert(ctx, p)
}
func (m *mockProfileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ProfileRepo = (*mockProfileRepo)(nil)

type mockAuthSessionRepo struct {
	create         func(ctx context.Context, s domain.AuthSession) (domain.AuthSession, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.AuthSession, error)
	getByTokenHash func(ctx context.Context, hash string) (domain.AuthSession, error)
	revoke         func(ctx context.Context, id uuid.UUID) error
	deleteExpired  func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockAuthSessionRepo) Create(ctx context.Context, s domain.AuthSession) (domain.AuthSession, error) {
	return m.create(ctx, s)
}
func (m *mockAuthSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.AuthSession, error) {
	return m.getByID(ctx, id)
}
func (m *mockAuthSessionRepo) GetByTokenHash(ctx context.Context, hash string) (domain.AuthSession, error) {
	return m.getByTokenHash(ctx, hash)
}
func (m *mockAuthSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	return m.revoke(ctx, id)
}
func (m *mockAuthSessionRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.deleteExpired(ctx, cutoff)
}

var _ repo.AuthSessionRepo = (*mockAuthSessionRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// authStore backs the auth mocks with maps so a test can run a whole
// signup → login → refresh → logout flow.
type authStore struct {
	users    map[string]domain.User
	profiles map[uuid.UUID]domain.Profile
	sessions map[uuid.UUID]domain.AuthSession
}

func newAuthStore() *authStore {
	return &authStore{
		users:    map[string]domain.User{},
		profiles: map[uuid.UUID]domain.Profile{},
		sessions: map[uuid.UUID]domain.AuthSession{},
	}
}

func (st *authStore) userRepo() *mockUserRepo {
	return &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			if _, ok := st.users[u.Email]; ok {
				return domain.User{}, domain.ErrConflict
			}
			u.ID = uuid.New()
			st.users[u.Email] = u
			return u, nil
		},
		getByEmail: func(_ context.Context, email string) (domain.User, error) {
			u, ok := st.users[email]
			if !ok {
				return domain.User{}, domain.ErrNotFound
			}
			return u, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			for _, u := range st.users {
				if u.ID == id {
					return u, nil
				}
			}
			return domain.User{}, domain.ErrNotFound
		},
	}
}

func (st *authStore) profileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		get: func(_ context.Context, id uuid.UUID) (domain.Profile, error) {
			p, ok := st.profiles[id]
			if !ok {
				return domain.Profile{}, domain.ErrNotFound
			}
			return p, nil
		},
		upsert: func(_ context.Context, p domain.Profile) (domain.Profile, error) {
			st.profiles[p.ID] = p
			return p, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			if _, ok := st.profiles[id]; !ok {
				return domain.ErrNotFound
			}
			delete(st.profiles, id)
			return nil
		},
	}
}

func (st *authStore) sessionRepo() *mockAuthSessionRepo {
	return &mockAuthSessionRepo{
		create: func(_ context.Context, s domain.AuthSession) (domain.AuthSession, error) {
			s.ID = uuid.New()
			st.sessions[s.ID] = s
			return s, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.AuthSession, error) {
			s, ok := st.sessions[id]
			if !ok {
				return domain.AuthSession{}, domain.ErrNotFound
			}
			return s, nil
		},
		getByTokenHash: func(_ context.Context, hash string) (domain.AuthSession, error) {
			for _, s := range st.sessions {
				if s.RefreshTokenHash == hash {
					return s, nil
				}
			}
			return domain.AuthSession{}, domain.ErrNotFound
		},
		revoke: func(_ context.Context, id uuid.UUID) error {
			s, ok := st.sessions[id]
			if !ok || s.RevokedAt != nil {
				return domain.ErrNotFound
			}
			now := time.Now()
			s.RevokedAt = &now
			st.sessions[id] = s
			return nil
		},
	}
}

func newAuthService(st *authStore) (*service.AuthService, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := service.NewAuthService(st.userRepo(), st.profileRepo(), st.sessionRepo(),
		auth.NewIssuer("test-secret", 15*time.Minute), 24*time.Hour, logger)
	return svc, &logs
}

// ---- Signup ----------------------------------------------------------------

func TestAuthService_Signup_OK(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)

	res, err := svc.Signup(context.Background(), "  Ada@Example.COM ", "hunter22", "Ada")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, domain.ProviderEmail, res.User.Provider)
	assert.NotEqual(t, "hunter22", st.users["ada@example.com"].PasswordHash)
	assert.NotEmpty(t, res.Session.AccessToken)
	assert.NotEmpty(t, res.Session.RefreshToken)
	assert.Equal(t, "Ada", st.profiles[res.User.ID].Name, "a profile is created when a name is given")
	assert.Len(t, st.sessions, 1)
}

func TestAuthService_Signup_NoNameNoProfile(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)

	_, err := svc.Signup(context.Background(), "bob@example.com", "hunter22", "")

	require.NoError(t, err)
	assert.Empty(t, st.profiles)
}

func TestAuthService_Signup_ProfileFailureIsLogged(t *testing.T) {
	st := newAuthStore()
	svc := service.NewAuthService(st.userRepo(),
		&mockProfileRepo{upsert: func(_ context.Context, _ domain.Profile) (domain.Profile, error) {
			return domain.Profile{}, errors.New("profiles table missing")
		}},
		st.sessionRepo(), auth.NewIssuer("test-secret", time.Minute), time.Hour,
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	res, err := svc.Signup(context.Background(), "cy@example.com", "hunter22", "Cy")

	require.NoError(t, err)
	assert.Equal(t, "cy@example.com", res.User.Email)
}

func TestAuthService_Signup_PasswordTooShort(t *testing.T) {
	svc, _ := newAuthService(newAuthStore())

	_, err := svc.Signup(context.Background(), "dee@example.com", "12345", "")

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), auth.MsgPasswordTooShort)
	assert.Equal(t, "Password must be at least 6 characters long.", auth.FriendlyMessage(err.Error()))
}

func TestAuthService_Signup_BadEmail(t *testing.T) {
	svc, _ := newAuthService(newAuthStore())

	_, err := svc.Signup(context.Background(), "not-an-email", "hunter22", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	_, err := svc.Signup(context.Background(), "eve@example.com", "hunter22", "")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "EVE@example.com", "another1", "")

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), auth.MsgUserExists)
}

// ---- Login / Authenticate --------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "fay@example.com", "correct horse", "")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "Fay@example.com", "correct horse")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, res.Session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)
	assert.Equal(t, "fay@example.com", p.Email)

	u, err := svc.CurrentUser(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()
	_, err := svc.Signup(ctx, "gil@example.com", "correct horse", "")
	require.NoError(t, err)

	for _, tc := range []struct{ email, password string }{
		{"gil@example.com", "wrong horse"},
		{"nobody@example.com", "correct horse"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, "Invalid email or password. Please check your credentials.", auth.FriendlyMessage(err.Error()))
	}
}

func TestAuthService_Authenticate_Garbage(t *testing.T) {
	svc, _ := newAuthService(newAuthStore())

	_, err := svc.Authenticate(context.Background(), "not.a.jwt")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- Logout / Refresh ------------------------------------------------------

func TestAuthService_Logout_RevokesAccessToken(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()
	res, err := svc.Signup(ctx, "hal@example.com", "hunter22", "")
	require.NoError(t, err)
	p, err := svc.Authenticate(ctx, res.Session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, p))
	require.NoError(t, svc.Logout(ctx, p), "logging out twice is fine")

	_, err = svc.Authenticate(ctx, res.Session.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Refresh_Rotates(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()
	first, err := svc.Signup(ctx, "ivy@example.com", "hunter22", "")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.Session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.RefreshToken, second.Session.RefreshToken)
	assert.Equal(t, first.User.ID, second.User.ID)

	_, err = svc.Refresh(ctx, first.Session.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "a refresh token works once")

	_, err = svc.Authenticate(ctx, first.Session.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "the old access token dies with its session")

	_, err = svc.Authenticate(ctx, second.Session.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	st := newAuthStore()
	svc, _ := newAuthService(st)
	ctx := context.Background()
	res, err := svc.Signup(ctx, "jo@example.com", "hunter22", "")
	require.NoError(t, err)
	for id, s := range st.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
		st.sessions[id] = s
	}

	_, err = svc.Refresh(ctx, res.Session.RefreshToken)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Refresh_Unknown(t *testing.T) {
	svc, _ := newAuthService(newAuthStore())

	_, err := svc.Refresh(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_PurgeSessions(t *testing.T) {
	cutoff := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var got time.Time
	sessions := &mockAuthSessionRepo{deleteExpired: func(_ context.Context, c time.Time) (int64, error) {
		got = c
		return 3, nil
	}}
	svc := service.NewAuthService(nil, nil, sessions, nil, time.Hour, slog.Default())

	n, err := svc.PurgeSessions(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, cutoff, got)
}

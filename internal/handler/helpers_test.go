package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/maple-planner/internal/domain"
	"github.com/pkordes/maple-planner/internal/handler"
)

const testToken = "good-token"

// testUser is the principal every authenticated test request runs as.
var testUser = domain.Principal{
	UserID:    uuid.MustParse("6f1c2b1e-3a7d-4c52-9a55-0c8f2e6b9d41"),
	SessionID: uuid.MustParse("0b7e4a9c-55d2-4f0e-8b8a-2d6c1f3e7a10"),
	Email:     "traveller@example.com",
	Name:      "Sam",
	Provider:  domain.ProviderEmail,
}

// stubAuthenticator accepts testToken and nothing else.
type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	if token != testToken {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return testUser, nil
}

// newHTTPHandler wires a Server with the given mocks into the router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	return handler.NewRouter(handler.NewServer(d), handler.RouterOptions{
		Authenticator: stubAuthenticator{},
		CORSOrigins:   []string{"http://localhost:5173"},
		MaxBodyBytes:  1 << 20,
	})
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// authedRequest builds a request carrying a valid bearer token.
func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func ptr[T any](v T) *T { return &v }

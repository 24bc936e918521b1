package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/maple-planner/internal/middleware"
)

func TestRateLimiter_PerClient(t *testing.T) {
	// One token per ~17 minutes: only the burst gets through during the test.
	rl := middleware.NewRateLimiter(0.001, 2)
	h := rl.Handler(trivialHandler)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/search/explore?location=Toronto", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:5001").Code, "the port does not make a new client")

	rec := do("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `"rate_limited"`, jsonField(t, rec.Body.Bytes(), "error", "code"))

	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000").Code, "other clients have their own bucket")
}

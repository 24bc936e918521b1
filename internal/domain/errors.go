package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database, or exists but belongs to another user.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when credentials or tokens are missing, invalid,
// expired, or revoked. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when a write collides with an existing record
// (e.g. signing up with an email that is already registered).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSuperseded is returned by a place search whose session started a newer
// search before this one finished. Its results have been discarded.
var ErrSuperseded = errors.New("search superseded")

// ErrUpstream is returned when the external places API fails a request the
// caller cannot do without. Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("upstream error")

// ErrRateLimited is returned when a caller exceeds its request allowance.
// Handlers should map this to HTTP 429.
var ErrRateLimited = errors.New("rate limited")

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/maple-planner/internal/auth"
	"github.com/pkordes/maple-planner/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError rejects a request before it reaches the service layer
// (missing or malformed body, unparseable parameter).
func requestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
}

// classify maps a service error to its status, code and message.
// notFound is the message used for domain.ErrNotFound, because the handler
// is the layer that knows what was being looked up.
func classify(err error, notFound string) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", notFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation)
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", unwrapMessage(err, domain.ErrUnauthorized)
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict", unwrapMessage(err, domain.ErrConflict)
	case errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict, "search_superseded", "a newer search replaced this one"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", unwrapMessage(err, domain.ErrRateLimited)
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream_error", unwrapMessage(err, domain.ErrUpstream)
	}
	return http.StatusInternalServerError, "internal", "internal server error"
}

// serviceError writes the error envelope for err, logging anything that is
// not the caller's fault.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, code, msg := classify(err, notFound)
	s.logFailure(r, status, err)
	writeError(w, status, code, msg)
}

// authError is serviceError for the auth routes: messages are rewritten into
// end-user text, including database failures that are otherwise opaque.
func (s *Server) authError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err, "user not found")
	if status == http.StatusInternalServerError && strings.Contains(err.Error(), auth.MsgDatabaseError) {
		msg = auth.MsgDatabaseError
	}
	s.logFailure(r, status, err)
	writeError(w, status, code, auth.FriendlyMessage(msg))
}

func (s *Server) logFailure(r *http.Request, status int, err error) {
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	case status == http.StatusBadGateway:
		s.logger.WarnContext(r.Context(), "upstream failure", "path", r.URL.Path, "error", err)
	}
}

// unwrapMessage extracts the human-readable part after a wrapped sentinel.
// e.g. "service.TripService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/maple-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "destination", "start_date", "end_date", "status",
	"item_title", "item_type", "location", "day_number", "scheduled_time",
	"notes", "rating", "place_id",
}

// ExportRow is the JSON form of one export row. Item fields are omitted for
// trips without items.
type ExportRow struct {
	TripID        openapi_types.UUID `json:"trip_id"`
	TripTitle     string             `json:"trip_title"`
	Destination   string             `json:"destination"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	Status        domain.TripStatus  `json:"status"`
	ItemTitle     *string            `json:"item_title,omitempty"`
	ItemType      *domain.ItemType   `json:"item_type,omitempty"`
	Location      *string            `json:"location,omitempty"`
	DayNumber     *int               `json:"day_number,omitempty"`
	ScheduledTime *string            `json:"scheduled_time,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Rating        *float64           `json:"rating,omitempty"`
	PlaceID       *string            `json:"place_id,omitempty"`
}

// GetExport handles GET /export.
// It returns a flat table of the caller's trips and their items.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		requestError(w, fmt.Errorf("unsupported format %q", format))
		return
	}

	rows, err := s.export.Export(r.Context(), principal(r).UserID)
	if err != nil {
		s.serviceError(w, r, err, "export not found")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		jr, err := domainRowToJSONRow(row)
		if err != nil {
			s.serviceError(w, r, err, "")
			return
		}
		out = append(out, jr)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="maple-planner-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to the wire type.
// Empty item fields become nil pointers (omitted in JSON).
func domainRowToJSONRow(r domain.ExportRow) (ExportRow, error) {
	tripID, err := uuid.Parse(r.TripID)
	if err != nil {
		return ExportRow{}, fmt.Errorf("handler.domainRowToJSONRow: trip id: %w", err)
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return ExportRow{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return ExportRow{}, err
	}

	row := ExportRow{
		TripID:      tripID,
		TripTitle:   r.TripTitle,
		Destination: r.Destination,
		StartDate:   start,
		EndDate:     end,
		Status:      r.Status,
		DayNumber:   r.DayNumber,
		Rating:      r.Rating,
	}
	if r.ItemTitle != "" {
		row.ItemTitle = &r.ItemTitle
	}
	if r.ItemType != "" {
		row.ItemType = &r.ItemType
	}
	if r.Location != "" {
		row.Location = &r.Location
	}
	if r.ScheduledTime != "" {
		row.ScheduledTime = &r.ScheduledTime
	}
	if r.Notes != "" {
		row.Notes = &r.Notes
	}
	if r.PlaceID != "" {
		row.PlaceID = &r.PlaceID
	}
	return row, nil
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil day numbers and ratings are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	var day, rating string
	if r.DayNumber != nil {
		day = strconv.Itoa(*r.DayNumber)
	}
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.Destination,
		r.StartDate,
		r.EndDate,
		string(r.Status),
		r.ItemTitle,
		string(r.ItemType),
		r.Location,
		day,
		r.ScheduledTime,
		r.Notes,
		rating,
		r.PlaceID,
	}
}

// parseDate parses an "2006-01-02" string into an openapi_types.Date.
func parseDate(s string) (openapi_types.Date, error) {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}, fmt.Errorf("handler.parseDate: %w", err)
	}
	return openapi_types.Date{Time: t}, nil
}

package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/models"
)

var csvHeader = []string{
	"Guest ID", "Name", "Contact", "Attending", "Guests", "Meals", "Special Requests", "Submitted At",
}

// formatResponseForCSV converts a response to a CSV row. contact comes from
// the directory and is empty for guests no longer configured.
func formatResponseForCSV(resp models.RSVPResponse, contact string) []string {
	attending := "No"
	if resp.Attending {
		attending = "Yes"
	}

	meals := make([]string, 0, len(resp.MealChoices))
	for _, m := range resp.MealChoices {
		if m.GuestName != "" {
			meals = append(meals, m.GuestName+": "+string(m.Meal))
		} else {
			meals = append(meals, string(m.Meal))
		}
	}

	submitted := ""
	if !resp.SubmittedAt.IsZero() {
		submitted = resp.SubmittedAt.Format("2006-01-02 15:04:05")
	}

	return []string{
		resp.GuestID,
		resp.GuestName,
		contact,
		attending,
		strconv.Itoa(resp.NumberOfGuests),
		strings.Join(meals, "; "),
		// Replace newlines with spaces for comment fields
		strings.ReplaceAll(resp.SpecialRequests, "\n", " "),
		submitted,
	}
}

// writeCSVHeaders sets HTTP headers and writes the UTF-8 BOM
func writeCSVHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rsvp-responses.csv")

	// Write UTF-8 BOM for Excel compatibility
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})
}

// HandleAdminDownloadCSV exports responses to CSV
func HandleAdminDownloadCSV(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := s.GetRSVP().List(r.Context())
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to load responses")
			http.Error(w, "Failed to load responses", http.StatusInternalServerError)
			return
		}

		writeCSVHeaders(w)

		dir := s.GetGuests()
		cw := csv.NewWriter(w)
		_ = cw.Write(csvHeader)
		for _, resp := range responses {
			contact := ""
			if g, ok := dir.ByID(resp.GuestID); ok {
				contact = g.Contact
			}
			_ = cw.Write(formatResponseForCSV(resp, contact))
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to write CSV")
		}
	}
}

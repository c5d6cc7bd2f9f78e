package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/auth"
	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/guests"
	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/templates"
)

// Server interface defines the methods needed by handlers
type Server interface {
	GetConfig() *config.Config
	GetGuests() *guests.Directory
	GetRSVP() *rsvp.Service
	AddFlash(w http.ResponseWriter, r *http.Request, msg string, isError bool)
	PopFlash(w http.ResponseWriter, r *http.Request) (string, bool)
}

// AdminServer extends Server with the auth gate
type AdminServer interface {
	Server
	GetAuth() *auth.Gate
}

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 64 << 10

// apiResponse is the body of every JSON API reply except the response list.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to write JSON response")
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, status int, success bool, message string) {
	writeJSON(w, r, status, apiResponse{Success: success, Message: message})
}

// newPage gathers the data every page shares, consuming a pending flash message.
func newPage(s Server, w http.ResponseWriter, r *http.Request) templates.Page {
	i18n.Remember(w, r)
	flash, isError := s.PopFlash(w, r)
	return templates.Page{
		Lang:       i18n.FromRequest(r),
		Wedding:    s.GetConfig().Wedding,
		Flash:      flash,
		FlashError: isError,
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("failed to render page")
	http.Error(w, "Failed to render page", http.StatusInternalServerError)
}

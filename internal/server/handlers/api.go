package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/auth"
	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/storage"
)

type authRequest struct {
	Password string `json:"password"`
}

// HandleAPIAuth exchanges the password for a session cookie
func HandleAPIAuth(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeResult(w, r, http.StatusBadRequest, false, "Invalid request body")
			return
		}

		gate := s.GetAuth()
		token, err := gate.Authenticate(req.Password)
		switch {
		case errors.Is(err, auth.ErrPasswordRequired):
			writeResult(w, r, http.StatusBadRequest, false, "Password is required")
		case errors.Is(err, auth.ErrNotConfigured):
			writeResult(w, r, http.StatusInternalServerError, false, "Password not configured")
		case errors.Is(err, auth.ErrInvalidPassword):
			hlog.FromRequest(r).Info().Msg("rejected admin password")
			writeResult(w, r, http.StatusOK, false, "Invalid password")
		case err != nil:
			hlog.FromRequest(r).Error().Err(err).Msg("failed to issue session token")
			writeResult(w, r, http.StatusInternalServerError, false, "Authentication failed")
		default:
			http.SetCookie(w, gate.Cookie(token))
			writeResult(w, r, http.StatusOK, true, "Authentication successful")
		}
	}
}

// HandleAPISubmitRSVP saves a JSON submission
func HandleAPISubmitRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub models.Submission
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeResult(w, r, http.StatusBadRequest, false, "Invalid request body")
			return
		}

		_, err := s.GetRSVP().Submit(r.Context(), sub)
		log := hlog.FromRequest(r)
		switch {
		case err == nil:
			writeResult(w, r, http.StatusOK, true, "RSVP saved successfully")
		case errors.Is(err, rsvp.ErrDeadlinePassed):
			writeResult(w, r, http.StatusForbidden, false, "RSVP deadline has passed")
		case errors.Is(err, rsvp.ErrUnknownGuest):
			writeResult(w, r, http.StatusBadRequest, false, "Unknown guest")
		case errors.Is(err, models.ErrInvalidSubmission):
			writeResult(w, r, http.StatusBadRequest, false, err.Error())
		case errors.Is(err, storage.ErrNotConfigured):
			log.Error().Err(err).Msg("storage backend is not configured")
			writeResult(w, r, http.StatusInternalServerError, false, "Storage not configured")
		case errors.Is(err, storage.ErrVersionConflict):
			log.Warn().Err(err).Str("guest_id", sub.GuestID).Msg("concurrent RSVP write")
			writeResult(w, r, http.StatusConflict, false, "RSVP was modified concurrently, please try again")
		default:
			log.Error().Err(err).Str("guest_id", sub.GuestID).Msg("failed to save RSVP")
			writeResult(w, r, http.StatusInternalServerError, false, "Failed to save RSVP")
		}
	}
}

// HandleAPIListRSVP returns every stored response. A read failure yields an
// empty list, missing storage credentials a 500.
func HandleAPIListRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := s.GetRSVP().List(r.Context())
		switch {
		case errors.Is(err, storage.ErrNotConfigured):
			hlog.FromRequest(r).Error().Err(err).Msg("storage backend is not configured")
			writeResult(w, r, http.StatusInternalServerError, false, "Storage not configured")
			return
		case err != nil:
			hlog.FromRequest(r).Error().Err(err).Msg("failed to read responses")
			responses = []models.RSVPResponse{}
		}
		writeJSON(w, r, http.StatusOK, responses)
	}
}

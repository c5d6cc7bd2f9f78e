package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/auth"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/storage"
	"github.com/AlexTLDR/wedding/templates"
)

// HandleAdminDashboard renders the dashboard, or the password prompt when the
// request carries no valid session.
func HandleAdminDashboard(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage(s, w, r)
		if !s.GetAuth().IsAuthenticated(r) {
			if err := templates.PasswordPrompt(templates.LoginView{Page: page}).Render(r.Context(), w); err != nil {
				renderError(w, r, err)
			}
			return
		}

		view := templates.AdminView{Page: page}
		responses, err := s.GetRSVP().List(r.Context())
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to load responses")
			view.StorageError = "Failed to load responses"
			if errors.Is(err, storage.ErrNotConfigured) {
				view.StorageError = "Storage not configured"
			}
		}
		view.Summary = rsvp.Summarize(responses)
		view.Pending = rsvp.Pending(s.GetGuests().All(), responses)

		if err := templates.AdminDashboard(view).Render(r.Context(), w); err != nil {
			renderError(w, r, err)
		}
	}
}

// HandleAdminLogin is the HTML form variant of the auth API
func HandleAdminLogin(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		gate := s.GetAuth()
		token, err := gate.Authenticate(r.FormValue("password"))
		if err == nil {
			http.SetCookie(w, gate.Cookie(token))
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}

		status := http.StatusOK
		msg := "Invalid password"
		switch {
		case errors.Is(err, auth.ErrPasswordRequired):
			status, msg = http.StatusBadRequest, "Password is required"
		case errors.Is(err, auth.ErrNotConfigured):
			status, msg = http.StatusInternalServerError, "Password not configured"
		case !errors.Is(err, auth.ErrInvalidPassword):
			hlog.FromRequest(r).Error().Err(err).Msg("failed to issue session token")
			status, msg = http.StatusInternalServerError, "Authentication failed"
		}

		page := newPage(s, w, r)
		w.WriteHeader(status)
		if err := templates.PasswordPrompt(templates.LoginView{Page: page, Error: msg}).Render(r.Context(), w); err != nil {
			renderError(w, r, err)
		}
	}
}


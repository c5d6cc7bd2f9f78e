package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/storage"
	"github.com/AlexTLDR/wedding/templates"
)

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

// HandleHome renders the landing page
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage(s, w, r)
		if err := templates.Home(page).Render(r.Context(), w); err != nil {
			renderError(w, r, err)
		}
	}
}

// HandleRSVP renders the RSVP form of the guest owning the unique URL,
// prefilled with the stored response.
func HandleRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage(s, w, r)

		guest, ok := s.GetGuests().ByURL(r.PathValue("uniqueUrl"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			if err := templates.GuestNotFound(page).Render(r.Context(), w); err != nil {
				renderError(w, r, err)
			}
			return
		}

		if err := templates.RSVPPage(rsvpView(s, r, page, guest)).Render(r.Context(), w); err != nil {
			renderError(w, r, err)
		}
	}
}

func rsvpView(s Server, r *http.Request, page templates.Page, guest models.Guest) templates.RSVPView {
	svc := s.GetRSVP()
	view := templates.RSVPView{
		Page:     page,
		Guest:    guest,
		Closed:   svc.Closed(),
		Deadline: svc.Deadline(),
	}
	resp, found, err := svc.ForGuest(r.Context(), guest.ID)
	if err != nil {
		// The form still works without the previous answer.
		hlog.FromRequest(r).Warn().Err(err).Str("guest_id", guest.ID).Msg("failed to load previous response")
	}
	if found {
		view.Response, view.HasResponse = resp, true
	}
	return view
}

// parseRSVPForm builds a submission from the HTML form. Meal slots beyond
// numberOfGuests are ignored.
func parseRSVPForm(r *http.Request, guest models.Guest) models.Submission {
	sub := models.Submission{
		GuestID:         guest.ID,
		GuestName:       guest.Name,
		Attending:       r.FormValue("attending") == "yes",
		SpecialRequests: r.FormValue("specialRequests"),
		MealChoices:     []models.MealChoice{},
	}
	if !sub.Attending {
		return sub
	}

	// Ignore error - an unparsable count fails validation as zero
	sub.NumberOfGuests, _ = strconv.Atoi(strings.TrimSpace(r.FormValue("numberOfGuests")))
	for n := 1; n <= sub.NumberOfGuests && n <= guest.MaxGuests; n++ {
		sub.MealChoices = append(sub.MealChoices, models.MealChoice{
			GuestNumber: n,
			Meal:        models.Meal(r.FormValue("meal" + strconv.Itoa(n))),
			GuestName:   r.FormValue("guestName" + strconv.Itoa(n)),
		})
	}
	return sub
}

// HandleRSVPSubmit processes the HTML RSVP form and redirects back to it
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.FromRequest(r)
		uniqueURL := r.PathValue("uniqueUrl")

		guest, ok := s.GetGuests().ByURL(uniqueURL)
		if !ok {
			page := newPage(s, w, r)
			w.WriteHeader(http.StatusNotFound)
			if err := templates.GuestNotFound(page).Render(r.Context(), w); err != nil {
				renderError(w, r, err)
			}
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		sub := parseRSVPForm(r, guest)
		_, err := s.GetRSVP().Submit(r.Context(), sub)
		switch {
		case err == nil:
			s.AddFlash(w, r, i18n.T(lang, "rsvp.saved"), false)
		case errors.Is(err, rsvp.ErrDeadlinePassed):
			s.AddFlash(w, r, i18n.T(lang, "rsvp.closed")+" "+i18n.FormatDeadline(s.GetRSVP().Deadline(), lang), true)
		case errors.Is(err, models.ErrInvalidSubmission):
			hlog.FromRequest(r).Info().Err(err).Str("guest_id", guest.ID).Msg("rejected RSVP form")
			renderRejectedForm(s, w, r, guest, sub, err)
			return
		case errors.Is(err, storage.ErrVersionConflict):
			s.AddFlash(w, r, i18n.T(lang, "rsvp.conflict"), true)
		default:
			hlog.FromRequest(r).Error().Err(err).Str("guest_id", guest.ID).Msg("failed to save RSVP")
			s.AddFlash(w, r, i18n.T(lang, "rsvp.failed"), true)
		}

		http.Redirect(w, r, "/rsvp/"+uniqueURL, http.StatusSeeOther)
	}
}

// renderRejectedForm shows the form again with what the guest entered and the
// first validation problem.
func renderRejectedForm(s Server, w http.ResponseWriter, r *http.Request, guest models.Guest, sub models.Submission, err error) {
	page := newPage(s, w, r)
	page.Flash, page.FlashError = i18n.T(page.Lang, "rsvp.invalid"), true
	if problems := models.Problems(err); len(problems) > 0 {
		page.Flash += " " + problems[0]
	}

	view := rsvpView(s, r, page, guest)
	view.Response = sub.Response(view.Response.SubmittedAt)

	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := templates.RSVPPage(view).Render(r.Context(), w); err != nil {
		renderError(w, r, err)
	}
}

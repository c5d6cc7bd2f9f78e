package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/rsvp"
)

var wedding = models.WeddingDetails{
	BrideName: "Ana",
	GroomName: "Ion",
	Date:      "Saturday, June 20, 2026",
	RSVPBy:    "Saturday, May 30, 2026",
	Venue:     models.Venue{Name: "Casa <Verde>"},
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestPages(t *testing.T) {
	page := Page{Lang: i18n.English, Wedding: wedding}
	response := models.RSVPResponse{
		GuestID:        "g1",
		GuestName:      "Ana Pop",
		Attending:      true,
		NumberOfGuests: 2,
		MealChoices: []models.MealChoice{
			{GuestNumber: 1, Meal: models.MealFish, GuestName: "Ana"},
			{GuestNumber: 2, Meal: models.MealKids},
		},
		SubmittedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		got  string
		want []string
	}{
		{
			name: "home",
			got:  renderString(t, Home(page)),
			want: []string{"Ana &amp; Ion", "Saturday, May 30, 2026", "Casa &lt;Verde&gt;"},
		},
		{
			name: "rsvp prefilled",
			got: renderString(t, RSVPPage(RSVPView{
				Page:        page,
				Guest:       models.Guest{ID: "g1", Name: "Ana Pop", UniqueURL: "ana", MaxGuests: 2},
				Response:    response,
				HasResponse: true,
			})),
			want: []string{`action="/rsvp/ana"`, `name="meal2"`, `value="fish" selected`, `value="Ana"`, "Update RSVP", "Apr 1, 2026"},
		},
		{
			name: "rsvp closed",
			got: renderString(t, RSVPPage(RSVPView{
				Page:     page,
				Guest:    models.Guest{ID: "g1", Name: "Ana Pop", UniqueURL: "ana", MaxGuests: 1},
				Closed:   true,
				Deadline: time.Date(2026, 5, 30, 23, 59, 0, 0, time.UTC),
			})),
			want: []string{"RSVPs closed on", "May 30, 2026, 23:59"},
		},
		{
			name: "not found in romanian",
			got:  renderString(t, GuestNotFound(Page{Lang: i18n.Romanian, Wedding: wedding})),
			want: []string{"Invitația nu a fost găsită", `lang="ro"`},
		},
		{
			name: "password prompt",
			got:  renderString(t, PasswordPrompt(LoginView{Page: page, Error: "Invalid password"})),
			want: []string{`action="/admin/login"`, "Invalid password", `type="password"`},
		},
		{
			name: "dashboard",
			got: renderString(t, AdminDashboard(AdminView{
				Page:    page,
				Summary: rsvp.Summarize([]models.RSVPResponse{response}),
				Pending: []models.Guest{{Name: "Maria", UniqueURL: "maria"}},
			})),
			want: []string{"Fish: 1", "Kids menu: 1", "Beef: 0", "/rsvp/maria", "/admin/responses.csv"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, s := range tc.want {
				if !strings.Contains(tc.got, s) {
					t.Errorf("page missing %q", s)
				}
			}
		})
	}
}

func TestFlash(t *testing.T) {
	got := renderString(t, Home(Page{Lang: i18n.English, Wedding: wedding, Flash: "Saved", FlashError: true}))
	if !strings.Contains(got, `class="flash flash-error"`) || !strings.Contains(got, "Saved") {
		t.Errorf("flash not rendered: %s", got)
	}
}

// Package templates renders the site's pages. Each page is an html/template
// set exposed as a templ.Component so handlers render every view the same way.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/rsvp"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"t": i18n.T,
	"mealLabel": func(lang i18n.Language, m models.Meal) string {
		return i18n.T(lang, "meal."+string(m))
	},
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"mealFor": func(r models.RSVPResponse, n int) models.Meal {
		for _, m := range r.MealChoices {
			if m.GuestNumber == n {
				return m.Meal
			}
		}
		return ""
	},
	"nameFor": func(r models.RSVPResponse, n int) string {
		for _, m := range r.MealChoices {
			if m.GuestNumber == n {
				return m.GuestName
			}
		}
		return ""
	},
	"count": func(counts map[models.Meal]int, m models.Meal) int {
		return counts[m]
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"deadline": func(t time.Time, lang i18n.Language) string {
		return i18n.FormatDeadline(t, lang)
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "rsvp", "notfound", "login", "admin"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(files, "base.html", name+".html"))
	}
}

// Page is the data every view shares.
type Page struct {
	Lang       i18n.Language
	Wedding    models.WeddingDetails
	Flash      string
	FlashError bool
}

type RSVPView struct {
	Page
	Guest       models.Guest
	Response    models.RSVPResponse
	HasResponse bool
	Closed      bool
	Deadline    time.Time
	Meals       []models.Meal
}

type LoginView struct {
	Page
	Error string
}

type AdminView struct {
	Page
	Summary      rsvp.Summary
	Pending      []models.Guest
	Meals        []models.Meal
	StorageError string
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "base", data)
	})
}

func Home(p Page) templ.Component {
	return render("home", p)
}

func RSVPPage(v RSVPView) templ.Component {
	if v.Meals == nil {
		v.Meals = models.Meals
	}
	return render("rsvp", v)
}

func GuestNotFound(p Page) templ.Component {
	return render("notfound", p)
}

func PasswordPrompt(v LoginView) templ.Component {
	return render("login", v)
}

func AdminDashboard(v AdminView) templ.Component {
	if v.Meals == nil {
		v.Meals = models.Meals
	}
	return render("admin", v)
}

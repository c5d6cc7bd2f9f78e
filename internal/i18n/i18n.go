package i18n

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/text/language"
)

type Language string

const (
	English  Language = "en"
	Romanian Language = "ro"
)

const cookieName = "lang"

// Default is served when nothing in the request names a supported language.
const Default = English

var matcher = language.NewMatcher([]language.Tag{language.English, language.Romanian})

func parse(s string) (Language, bool) {
	switch Language(s) {
	case English, Romanian:
		return Language(s), true
	}
	return "", false
}

// FromRequest resolves the language from the lang query parameter, then the
// lang cookie, then the Accept-Language header.
func FromRequest(r *http.Request) Language {
	if lang, ok := parse(r.URL.Query().Get("lang")); ok {
		return lang
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		if lang, ok := parse(cookie.Value); ok {
			return lang
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			tag, _, confidence := matcher.Match(tags...)
			if confidence != language.No {
				base, _ := tag.Base()
				if lang, ok := parse(base.String()); ok {
					return lang
				}
			}
		}
	}

	return Default
}

// Remember persists an explicit ?lang= choice in a cookie.
func Remember(w http.ResponseWriter, r *http.Request) {
	lang, ok := parse(r.URL.Query().Get("lang"))
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
}

// T returns the translation of key, falling back to English and then to the key itself.
func T(lang Language, key string) string {
	if s, ok := catalog[lang][key]; ok {
		return s
	}
	if s, ok := catalog[English][key]; ok {
		return s
	}
	return key
}

// FormatDeadline formats the deadline for display based on language
func FormatDeadline(deadline time.Time, lang Language) string {
	// Format: "12 Aprilie 2026, 23:59" for Romanian or "April 12, 2026, 23:59" for English
	if lang == Romanian {
		months := []string{"", "Ianuarie", "Februarie", "Martie", "Aprilie", "Mai", "Iunie",
			"Iulie", "August", "Septembrie", "Octombrie", "Noiembrie", "Decembrie"}
		return fmt.Sprintf("%d %s %d, %02d:%02d",
			deadline.Day(), months[deadline.Month()], deadline.Year(),
			deadline.Hour(), deadline.Minute())
	}
	return deadline.Format("January 2, 2006, 15:04")
}

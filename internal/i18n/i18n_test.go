package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		cookie string
		accept string
		want   Language
	}{
		{name: "default", want: English},
		{name: "query wins", query: "ro", cookie: "en", accept: "en-US", want: Romanian},
		{name: "unsupported query falls through to cookie", query: "fr", cookie: "ro", want: Romanian},
		{name: "cookie before header", cookie: "en", accept: "ro-RO", want: English},
		{name: "accept-language match", accept: "ro-RO,ro;q=0.9,en;q=0.8", want: Romanian},
		{name: "accept-language regional english", accept: "en-GB", want: English},
		{name: "accept-language unsupported", accept: "ja-JP", want: English},
		{name: "malformed header", accept: ";;;", want: English},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := "/"
			if tc.query != "" {
				target += "?lang=" + tc.query
			}
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "lang", Value: tc.cookie})
			}
			if tc.accept != "" {
				r.Header.Set("Accept-Language", tc.accept)
			}
			if got := FromRequest(r); got != tc.want {
				t.Errorf("FromRequest() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRemember(t *testing.T) {
	w := httptest.NewRecorder()
	Remember(w, httptest.NewRequest(http.MethodGet, "/?lang=ro", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "lang" || cookies[0].Value != "ro" {
		t.Errorf("cookies = %v", cookies)
	}

	w = httptest.NewRecorder()
	Remember(w, httptest.NewRequest(http.MethodGet, "/?lang=xx", nil))
	if len(w.Result().Cookies()) != 0 {
		t.Error("unsupported language was remembered")
	}
}

func TestT(t *testing.T) {
	if got := T(Romanian, "admin.login"); got != "Autentificare" {
		t.Errorf("T(ro) = %q", got)
	}
	if got := T(Language("de"), "admin.login"); got != "Log in" {
		t.Errorf("T(de) = %q, want English fallback", got)
	}
	if got := T(English, "no.such.key"); got != "no.such.key" {
		t.Errorf("T(missing) = %q, want key", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[English] {
		if _, ok := catalog[Romanian][key]; !ok {
			t.Errorf("Romanian catalog lacks %q", key)
		}
	}
}

func TestFormatDeadline(t *testing.T) {
	d := time.Date(2026, 4, 12, 23, 59, 0, 0, time.UTC)
	if got := FormatDeadline(d, Romanian); got != "12 Aprilie 2026, 23:59" {
		t.Errorf("ro = %q", got)
	}
	if got := FormatDeadline(d, English); got != "April 12, 2026, 23:59" {
		t.Errorf("en = %q", got)
	}
}

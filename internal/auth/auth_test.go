package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

var issued = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(password, secret string, secure bool, at time.Time) *Gate {
	g := New(password, secret, secure, zerolog.Nop())
	g.now = func() time.Time { return at }
	return g
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		password  string
		secret    string
		candidate string
		wantErr   error
	}{
		{name: "correct plain password", password: "hunter2", secret: secret, candidate: "hunter2"},
		{name: "correct bcrypt password", password: string(hash), secret: secret, candidate: "hunter2"},
		{name: "wrong password", password: "hunter2", secret: secret, candidate: "hunter3", wantErr: ErrInvalidPassword},
		{name: "wrong bcrypt password", password: string(hash), secret: secret, candidate: "nope", wantErr: ErrInvalidPassword},
		{name: "empty candidate", password: "hunter2", secret: secret, candidate: "", wantErr: ErrPasswordRequired},
		{name: "password unset", password: "", secret: secret, candidate: "x", wantErr: ErrNotConfigured},
		{name: "secret unset", password: "hunter2", secret: "", candidate: "hunter2", wantErr: ErrNotConfigured},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGate(tc.password, tc.secret, false, issued)
			token, err := g.Authenticate(tc.candidate)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Authenticate() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				if token != "" {
					t.Errorf("Authenticate() returned a token on failure")
				}
				return
			}
			if !g.Validate(token) {
				t.Errorf("Validate() rejected a fresh token")
			}
		})
	}
}

func TestAuthenticate_Claims(t *testing.T) {
	g := newTestGate("pw", secret, false, issued)
	token, err := g.Authenticate("pw")
	if err != nil {
		t.Fatal(err)
	}

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		t.Fatal(err)
	}
	if !claims.Authenticated || claims.Timestamp != issued.UnixMilli() {
		t.Errorf("custom claims = %+v", claims)
	}
	if claims.Issuer != Issuer || len(claims.Audience) != 1 || claims.Audience[0] != Audience {
		t.Errorf("iss/aud = %q/%v", claims.Issuer, claims.Audience)
	}
	if !claims.ExpiresAt.Equal(issued.Add(24 * time.Hour)) {
		t.Errorf("exp = %v, want iat+24h", claims.ExpiresAt)
	}
}

func sign(t *testing.T, key string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func validClaims() Claims {
	return Claims{
		Authenticated: true,
		Timestamp:     issued.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
		},
	}
}

func TestValidate(t *testing.T) {
	at := issued.Add(time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
		now   time.Time
		want  bool
	}{
		{
			name:  "valid",
			token: func(t *testing.T) string { return sign(t, secret, jwt.SigningMethodHS256, validClaims()) },
			now:   at,
			want:  true,
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return sign(t, secret, jwt.SigningMethodHS256, validClaims()) },
			now:   issued.Add(25 * time.Hour),
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "someone-else"
				return sign(t, secret, jwt.SigningMethodHS256, c)
			},
			now: at,
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"admins"}
				return sign(t, secret, jwt.SigningMethodHS256, c)
			},
			now: at,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = nil
				return sign(t, secret, jwt.SigningMethodHS256, c)
			},
			now: at,
		},
		{
			name: "not authenticated",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Authenticated = false
				return sign(t, secret, jwt.SigningMethodHS256, c)
			},
			now: at,
		},
		{
			name:  "wrong key",
			token: func(t *testing.T) string { return sign(t, "other", jwt.SigningMethodHS256, validClaims()) },
			now:   at,
		},
		{
			name:  "other hmac algorithm",
			token: func(t *testing.T) string { return sign(t, secret, jwt.SigningMethodHS512, validClaims()) },
			now:   at,
		},
		{
			name:  "malformed",
			token: func(*testing.T) string { return "not.a.token" },
			now:   at,
		},
		{
			name:  "empty",
			token: func(*testing.T) string { return "" },
			now:   at,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGate("pw", secret, false, tc.now)
			if got := g.Validate(tc.token(t)); got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCookie(t *testing.T) {
	g := newTestGate("pw", secret, true, issued)
	token, err := g.Authenticate("pw")
	if err != nil {
		t.Fatal(err)
	}

	c := g.Cookie(token)
	if c.Name != CookieName || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" || c.MaxAge != 86400 {
		t.Errorf("Cookie() = %+v", c)
	}

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if g.IsAuthenticated(r) {
		t.Error("request without cookie is authenticated")
	}
	r.AddCookie(c)
	if !g.IsAuthenticated(r) {
		t.Error("request with session cookie is not authenticated")
	}
}

// Package auth gates the admin view behind a shared password. A correct
// password is exchanged for a signed session token kept in a cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "wedding_auth"
	Issuer     = "wedding-site"
	Audience   = "wedding-users"
	TokenTTL   = 24 * time.Hour
)

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrNotConfigured    = errors.New("password not configured")
	ErrInvalidPassword  = errors.New("invalid password")
)

// Claims is the payload of a session token.
type Claims struct {
	Authenticated bool  `json:"authenticated"`
	Timestamp     int64 `json:"timestamp"`
	jwt.RegisteredClaims
}

type Gate struct {
	password      string
	secret        []byte
	secureCookies bool
	now           func() time.Time
	log           zerolog.Logger
}

// New returns a gate for the configured password, which may be plain text or
// a bcrypt hash, signing tokens with secret.
func New(password, secret string, secureCookies bool, log zerolog.Logger) *Gate {
	return &Gate{
		password:      password,
		secret:        []byte(secret),
		secureCookies: secureCookies,
		now:           time.Now,
		log:           log.With().Str("component", "auth").Logger(),
	}
}

// Authenticate checks candidate against the configured password and returns
// a fresh session token.
func (g *Gate) Authenticate(candidate string) (string, error) {
	if candidate == "" {
		return "", ErrPasswordRequired
	}
	if g.password == "" || len(g.secret) == 0 {
		g.log.Error().Msg("WEDDING_PASSWORD or JWT_SECRET is not set")
		return "", ErrNotConfigured
	}
	if !g.matches(candidate) {
		return "", ErrInvalidPassword
	}

	now := g.now()
	claims := Claims{
		Authenticated: true,
		Timestamp:     now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (g *Gate) matches(candidate string) bool {
	if isBcryptHash(g.password) {
		return bcrypt.CompareHashAndPassword([]byte(g.password), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.password), []byte(candidate)) == 1
}

func isBcryptHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// Validate reports whether token is a live session token issued by this gate.
func (g *Gate) Validate(token string) bool {
	if token == "" || len(g.secret) == 0 {
		return false
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		g.log.Debug().Err(err).Msg("session token rejected")
		return false
	}
	if !claims.Authenticated {
		g.log.Debug().Msg("session token is not authenticated")
		return false
	}
	return true
}

// IsAuthenticated checks the session cookie of r.
func (g *Gate) IsAuthenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return g.Validate(c.Value)
}

// Cookie wraps a session token for the response.
func (g *Gate) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlexTLDR/wedding/internal/models"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendFile   = "file"
	BackendGitHub = "github"
	BackendBolt   = "bolt"
	BackendSQL    = "sql"
)

type Config struct {
	// HTTP
	Port          string
	BaseURL       string
	CORSOrigins   []string
	SecureCookies bool

	// Auth
	Password      string
	JWTSecret     string
	SessionSecret string

	// Guests
	GuestsJSON  string
	GuestsFile  string
	PhoneRegion string

	// Event details
	Wedding      models.WeddingDetails
	RSVPDeadline time.Time // zero when submissions never close

	Storage StorageConfig
	Notify  NotifyConfig

	// Observability
	LogLevel     zerolog.Level
	LogFormat    string
	OTLPEndpoint string
	ServiceName  string
}

type StorageConfig struct {
	Backend       string
	ResponsesFile string
	BoltPath      string

	DatabaseDriver string
	DatabaseURL    string

	GitHub GitHubConfig
}

type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	Path   string
	APIURL string
}

type NotifyConfig struct {
	ResendAPIKey string
	From         string
	To           []string
}

// Enabled reports whether every value needed to send notifications is present.
func (n NotifyConfig) Enabled() bool {
	return n.ResendAPIKey != "" && n.From != "" && len(n.To) > 0
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "")),
		Password:      getEnv("WEDDING_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),
		GuestsJSON:    getEnv("GUESTS", ""),
		GuestsFile:    getEnv("GUESTS_FILE", ""),
		PhoneRegion:   strings.ToUpper(getEnv("PHONE_REGION", "US")),
		Wedding:       loadWedding(),
		Storage: StorageConfig{
			Backend:        strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
			ResponsesFile:  getEnv("RESPONSES_FILE", "data/rsvp-responses.json"),
			BoltPath:       getEnv("BOLT_PATH", "data/rsvp.db"),
			DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite3"),
			DatabaseURL:    getEnv("DATABASE_URL", "data/rsvp.sqlite"),
			GitHub: GitHubConfig{
				Token:  getEnv("GITHUB_TOKEN", ""),
				Owner:  getEnv("GITHUB_OWNER", ""),
				Repo:   getEnv("GITHUB_REPO", ""),
				Branch: getEnv("GITHUB_BRANCH", "main"),
				Path:   getEnv("GITHUB_PATH", "src/data/rsvp-responses.json"),
				APIURL: strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			},
		},
		Notify: NotifyConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("NOTIFY_FROM", ""),
			To:           splitList(getEnv("NOTIFY_TO", "")),
		},
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "console")),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "wedding"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendFile, BackendGitHub, BackendBolt, BackendSQL:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: want file, github, bolt or sql", cfg.Storage.Backend)
	}

	secure, err := strconv.ParseBool(getEnv("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIES: %w", err)
	}
	cfg.SecureCookies = secure

	if v := getEnv("RSVP_DEADLINE", ""); v != "" {
		deadline, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid RSVP_DEADLINE format: %w", err)
		}
		cfg.RSVPDeadline = deadline
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// GuestsSource returns the raw guest directory JSON, preferring GUESTS over GUESTS_FILE.
// An empty result means no guests are configured.
func (c *Config) GuestsSource() ([]byte, error) {
	if c.GuestsJSON != "" {
		return []byte(c.GuestsJSON), nil
	}
	if c.GuestsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.GuestsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read GUESTS_FILE: %w", err)
	}
	return data, nil
}

// RSVPLink is the invitation URL a guest receives.
func (c *Config) RSVPLink(uniqueURL string) string {
	return fmt.Sprintf("%s/rsvp/%s", c.BaseURL, uniqueURL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

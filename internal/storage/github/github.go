// Package github keeps the RSVP document as a file committed to a GitHub
// repository via the contents API. The blob sha is the version token, so a
// stale write is rejected by GitHub instead of overwriting newer responses.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/AlexTLDR/wedding/internal/storage"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/AlexTLDR/wedding/internal/storage/github")

const defaultAPIURL = "https://api.github.com"

type Config struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	Path   string
	APIURL string
}

type Backend struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// New returns a backend for cfg. Without a token every call fails with
// storage.ErrNotConfigured.
func New(cfg Config) *Backend {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}

	var client *http.Client
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = 15 * time.Second
	}
	return &Backend{cfg: cfg, client: client, now: time.Now}
}

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

func (b *Backend) Read(ctx context.Context) (storage.Document, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "GetContent")
	defer span.End()

	if err := b.configured(); err != nil {
		return storage.Document{}, err
	}

	endpoint := b.contentsURL() + "?ref=" + url.QueryEscape(b.cfg.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return storage.Document{}, fmt.Errorf("failed to build request: %w", err)
	}
	b.setHeaders(req)

	resp, err := b.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return storage.Document{}, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		span.RecordError(err)
		return storage.Document{}, err
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		span.RecordError(err)
		return storage.Document{}, fmt.Errorf("%w: failed to decode contents response: %w", storage.ErrUnavailable, err)
	}
	if content.Type != "" && content.Type != "file" {
		return storage.Document{}, fmt.Errorf("%w: %s is a %s, not a file", storage.ErrCorrupt, b.cfg.Path, content.Type)
	}

	data, err := decodeContent(content)
	if err != nil {
		span.RecordError(err)
		return storage.Document{}, err
	}
	return storage.Document{Data: data, Version: content.SHA}, nil
}

func (b *Backend) Write(ctx context.Context, doc storage.Document) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "CreateOrUpdateFileContents")
	defer span.End()

	if err := b.configured(); err != nil {
		return err
	}

	body, err := json.Marshal(updateRequest{
		Message: fmt.Sprintf("Update RSVP responses - %s", b.now().UTC().Format(time.RFC3339)),
		Content: base64.StdEncoding.EncodeToString(doc.Data),
		Branch:  b.cfg.Branch,
		SHA:     doc.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to encode update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	b.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// GitHub answers 409 for a stale sha and 422 when a sha is missing for an existing file.
		err := fmt.Errorf("%w: %s", storage.ErrVersionConflict, readMessage(resp))
		span.RecordError(err)
		return err
	default:
		err := statusError(resp)
		span.RecordError(err)
		return err
	}
}

func (b *Backend) configured() error {
	if b.client == nil {
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", storage.ErrNotConfigured)
	}
	if b.cfg.Owner == "" || b.cfg.Repo == "" || b.cfg.Path == "" {
		return fmt.Errorf("%w: repository owner, name and path are required", storage.ErrNotConfigured)
	}
	return nil
}

func (b *Backend) contentsURL() string {
	segments := strings.Split(strings.Trim(b.cfg.Path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		b.cfg.APIURL, url.PathEscape(b.cfg.Owner), url.PathEscape(b.cfg.Repo), strings.Join(segments, "/"))
}

func (b *Backend) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

func decodeContent(c contentResponse) ([]byte, error) {
	if c.Encoding != "" && c.Encoding != "base64" {
		return nil, fmt.Errorf("%w: unsupported content encoding %q", storage.ErrCorrupt, c.Encoding)
	}
	// The API wraps base64 content at 60 columns.
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(c.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode content: %w", storage.ErrCorrupt, err)
	}
	return data, nil
}

func statusError(resp *http.Response) error {
	msg := readMessage(resp)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return storage.ErrNotExist
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w: github returned %d: %s", storage.ErrUnavailable, storage.ErrUnauthorized, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w: github returned %d: %s", storage.ErrUnavailable, resp.StatusCode, msg)
	}
}

func readMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}

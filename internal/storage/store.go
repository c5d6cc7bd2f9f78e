package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AlexTLDR/wedding/internal/models"
)

// Store reads and upserts RSVP responses on top of a Backend. Every write
// replaces the whole collection. Upserts within one Store are serialized.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     zerolog.Logger
}

func NewStore(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log.With().Str("component", "store").Logger(),
	}
}

// List returns every stored response. A missing or malformed document reads as
// an empty collection.
func (s *Store) List(ctx context.Context) ([]models.RSVPResponse, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ListResponses")
	defer span.End()

	responses, _, err := s.load(ctx)
	if errors.Is(err, ErrCorrupt) {
		s.log.Warn().Err(err).Msg("stored responses are malformed, reading as empty")
		return []models.RSVPResponse{}, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("responses", len(responses)))
	return responses, nil
}

// Get returns the stored response of one guest.
func (s *Store) Get(ctx context.Context, guestID string) (models.RSVPResponse, bool, error) {
	responses, err := s.List(ctx)
	if err != nil {
		return models.RSVPResponse{}, false, err
	}
	for _, r := range responses {
		if r.GuestID == guestID {
			return r, true, nil
		}
	}
	return models.RSVPResponse{}, false, nil
}

// Upsert replaces the response with the same guest id, or appends it. The
// document version read here is sent with the write, so a concurrent change
// surfaces as ErrVersionConflict on backends that track versions.
func (s *Store) Upsert(ctx context.Context, resp models.RSVPResponse) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "UpsertResponse")
	defer span.End()
	span.SetAttributes(attribute.String("guest.id", resp.GuestID))

	if err := resp.Check(); err != nil {
		err = fmt.Errorf("%w: refusing to store response: %w", ErrCorrupt, err)
		span.RecordError(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	responses, version, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	index := make(map[string]int, len(responses))
	for i, r := range responses {
		index[r.GuestID] = i
	}
	if i, ok := index[resp.GuestID]; ok {
		span.AddEvent("replace")
		responses[i] = resp
	} else {
		span.AddEvent("append")
		responses = append(responses, resp)
	}

	data, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to encode responses: %w", err)
	}

	if err := s.backend.Write(ctx, Document{Data: data, Version: version}); err != nil {
		span.RecordError(err)
		return wrapBackendErr("write", err)
	}

	s.log.Info().
		Str("guest_id", resp.GuestID).
		Bool("attending", resp.Attending).
		Int("responses", len(responses)).
		Msg("response saved")
	return nil
}

// load reads and decodes the collection. It returns ErrCorrupt for a document
// that is not a JSON array of responses.
func (s *Store) load(ctx context.Context) ([]models.RSVPResponse, string, error) {
	doc, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotExist) {
		return []models.RSVPResponse{}, "", nil
	}
	if err != nil {
		return nil, "", wrapBackendErr("read", err)
	}

	if len(bytes.TrimSpace(doc.Data)) == 0 {
		return []models.RSVPResponse{}, doc.Version, nil
	}

	var responses []models.RSVPResponse
	if err := json.Unmarshal(doc.Data, &responses); err != nil {
		return nil, doc.Version, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if responses == nil {
		responses = []models.RSVPResponse{}
	}
	return responses, doc.Version, nil
}

func wrapBackendErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrVersionConflict), errors.Is(err, ErrUnavailable):
		return fmt.Errorf("failed to %s responses: %w", op, err)
	default:
		return fmt.Errorf("failed to %s responses: %w: %w", op, ErrUnavailable, err)
	}
}

// Package rsvp implements the submission flow and the dashboard aggregation.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/notify"
)

var (
	ErrUnknownGuest   = errors.New("unknown guest")
	ErrDeadlinePassed = errors.New("the RSVP deadline has passed")
)

const notifyTimeout = 10 * time.Second

type ResponseStore interface {
	List(ctx context.Context) ([]models.RSVPResponse, error)
	Get(ctx context.Context, guestID string) (models.RSVPResponse, bool, error)
	Upsert(ctx context.Context, resp models.RSVPResponse) error
}

type GuestLookup interface {
	ByID(id string) (models.Guest, bool)
}

type Service struct {
	store    ResponseStore
	guests   GuestLookup
	notifier notify.Notifier
	deadline time.Time
	now      func() time.Time
	log      zerolog.Logger
}

// NewService wires the submission flow. Submissions close after deadline
// unless it is the zero time; a nil notifier drops notifications.
func NewService(store ResponseStore, guests GuestLookup, notifier notify.Notifier, deadline time.Time, log zerolog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		store:    store,
		guests:   guests,
		notifier: notifier,
		deadline: deadline,
		now:      time.Now,
		log:      log.With().Str("component", "rsvp").Logger(),
	}
}

// Submit validates a submission for a known guest, stamps it and upserts it.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (models.RSVPResponse, error) {
	now := s.now()
	if s.closedAt(now) {
		return models.RSVPResponse{}, ErrDeadlinePassed
	}

	sub.Normalize()
	if sub.GuestID == "" {
		return models.RSVPResponse{}, fmt.Errorf("%w: guestId is required", models.ErrInvalidSubmission)
	}

	guest, ok := s.guests.ByID(sub.GuestID)
	if !ok {
		return models.RSVPResponse{}, fmt.Errorf("%w: %s", ErrUnknownGuest, sub.GuestID)
	}
	if sub.GuestName == "" {
		sub.GuestName = guest.Name
	}
	if err := sub.Validate(guest.MaxGuests); err != nil {
		return models.RSVPResponse{}, err
	}

	resp := sub.Response(now)
	if err := s.store.Upsert(ctx, resp); err != nil {
		return models.RSVPResponse{}, fmt.Errorf("failed to save RSVP: %w", err)
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.RSVPReceived(nctx, resp); err != nil {
		s.log.Warn().Err(err).Str("guest_id", resp.GuestID).Msg("notification failed")
	}

	return resp, nil
}

// Closed reports whether submissions are no longer accepted.
func (s *Service) Closed() bool {
	return s.closedAt(s.now())
}

func (s *Service) closedAt(t time.Time) bool {
	return !s.deadline.IsZero() && t.After(s.deadline)
}

func (s *Service) Deadline() time.Time {
	return s.deadline
}

func (s *Service) List(ctx context.Context) ([]models.RSVPResponse, error) {
	return s.store.List(ctx)
}

// ForGuest returns the stored response of a guest, if any.
func (s *Service) ForGuest(ctx context.Context, guestID string) (models.RSVPResponse, bool, error) {
	return s.store.Get(ctx, guestID)
}

package rsvp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/notify"
)

type fakeStore struct {
	saved     []models.RSVPResponse
	upsertErr error
}

func (f *fakeStore) List(context.Context) ([]models.RSVPResponse, error) {
	return f.saved, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (models.RSVPResponse, bool, error) {
	for _, r := range f.saved {
		if r.GuestID == id {
			return r, true, nil
		}
	}
	return models.RSVPResponse{}, false, nil
}

func (f *fakeStore) Upsert(_ context.Context, resp models.RSVPResponse) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i, r := range f.saved {
		if r.GuestID == resp.GuestID {
			f.saved[i] = resp
			return nil
		}
	}
	f.saved = append(f.saved, resp)
	return nil
}

type guestMap map[string]models.Guest

func (g guestMap) ByID(id string) (models.Guest, bool) {
	guest, ok := g[id]
	return guest, ok
}

type recordingNotifier struct {
	got []models.RSVPResponse
	err error
}

func (n *recordingNotifier) RSVPReceived(_ context.Context, resp models.RSVPResponse) error {
	n.got = append(n.got, resp)
	return n.err
}

var now = time.Date(2026, 5, 1, 15, 4, 5, 0, time.FixedZone("EEST", 3*3600))

func newTestService(store *fakeStore, notifier notify.Notifier, deadline time.Time) *Service {
	guests := guestMap{
		"g1": {ID: "g1", Name: "Ana Pop", UniqueURL: "ana", MaxGuests: 2},
	}
	svc := NewService(store, guests, notifier, deadline, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name    string
		sub     models.Submission
		wantErr error
		check   func(t *testing.T, r models.RSVPResponse)
	}{
		{
			name: "attending party",
			sub: models.Submission{
				GuestID:        " g1 ",
				Attending:      true,
				NumberOfGuests: 2,
				MealChoices: []models.MealChoice{
					{GuestNumber: 2, Meal: "Fish"},
					{GuestNumber: 1, Meal: models.MealBeef},
				},
			},
			check: func(t *testing.T, r models.RSVPResponse) {
				if r.GuestName != "Ana Pop" {
					t.Errorf("GuestName = %q, want directory name", r.GuestName)
				}
				if r.MealChoices[0].Meal != models.MealBeef || r.MealChoices[1].Meal != models.MealFish {
					t.Errorf("MealChoices = %v", r.MealChoices)
				}
				if !r.SubmittedAt.Equal(now) || r.SubmittedAt.Location() != time.UTC {
					t.Errorf("SubmittedAt = %v, want %v in UTC", r.SubmittedAt, now)
				}
			},
		},
		{
			name: "declined clears party",
			sub: models.Submission{
				GuestID:        "g1",
				Attending:      false,
				NumberOfGuests: 2,
				MealChoices:    []models.MealChoice{{GuestNumber: 1, Meal: models.MealBeef}},
			},
			check: func(t *testing.T, r models.RSVPResponse) {
				if r.NumberOfGuests != 0 || len(r.MealChoices) != 0 || r.MealChoices == nil {
					t.Errorf("declined response = %+v", r)
				}
			},
		},
		{
			name:    "unknown guest",
			sub:     models.Submission{GuestID: "nobody"},
			wantErr: ErrUnknownGuest,
		},
		{
			name:    "missing guest id",
			sub:     models.Submission{},
			wantErr: models.ErrInvalidSubmission,
		},
		{
			name: "party too large",
			sub: models.Submission{
				GuestID:        "g1",
				Attending:      true,
				NumberOfGuests: 3,
				MealChoices:    meals(models.MealBeef, models.MealBeef, models.MealBeef),
			},
			wantErr: models.ErrInvalidSubmission,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			notifier := &recordingNotifier{}
			svc := newTestService(store, notifier, time.Time{})

			got, err := svc.Submit(context.Background(), tc.sub)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				if len(store.saved) != 0 || len(notifier.got) != 0 {
					t.Error("rejected submission was saved or notified")
				}
				return
			}
			if len(store.saved) != 1 || len(notifier.got) != 1 {
				t.Fatalf("saved %d, notified %d; want 1 and 1", len(store.saved), len(notifier.got))
			}
			tc.check(t, got)
		})
	}
}

func TestSubmit_Deadline(t *testing.T) {
	store := &fakeStore{}

	closed := newTestService(store, nil, now.Add(-time.Minute))
	if _, err := closed.Submit(context.Background(), models.Submission{GuestID: "g1"}); !errors.Is(err, ErrDeadlinePassed) {
		t.Errorf("Submit() after deadline error = %v, want ErrDeadlinePassed", err)
	}

	open := newTestService(store, nil, now.Add(time.Minute))
	if _, err := open.Submit(context.Background(), models.Submission{GuestID: "g1"}); err != nil {
		t.Errorf("Submit() before deadline error = %v", err)
	}
	if open.Closed() || !closed.Closed() {
		t.Error("Closed() disagrees with the deadline")
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	storeErr := errors.New("boom")
	notifier := &recordingNotifier{}
	svc := newTestService(&fakeStore{upsertErr: storeErr}, notifier, time.Time{})

	_, err := svc.Submit(context.Background(), models.Submission{GuestID: "g1"})
	if !errors.Is(err, storeErr) {
		t.Fatalf("Submit() error = %v, want wrapped store error", err)
	}
	if len(notifier.got) != 0 {
		t.Error("failed save was notified")
	}
}

func TestSubmit_NotificationFailureIsIgnored(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &recordingNotifier{err: errors.New("smtp down")}, time.Time{})

	if _, err := svc.Submit(context.Background(), models.Submission{GuestID: "g1"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	r, ok, err := svc.ForGuest(context.Background(), "g1")
	if err != nil || !ok || r.GuestID != "g1" {
		t.Errorf("ForGuest() = %+v, %v, %v", r, ok, err)
	}
}

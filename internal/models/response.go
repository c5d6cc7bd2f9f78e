package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
)

// MaxSpecialRequests bounds the free-text field on a submission, in runes.
const MaxSpecialRequests = 2000

var ErrInvalidSubmission = errors.New("invalid RSVP")

type Meal string

const (
	MealBeef       Meal = "beef"
	MealFish       Meal = "fish"
	MealVegetarian Meal = "vegetarian"
	MealKids       Meal = "kids"
)

// Meals lists every meal in display order.
var Meals = []Meal{MealBeef, MealFish, MealVegetarian, MealKids}

func (m Meal) Valid() bool {
	return slices.Contains(Meals, m)
}

// MealChoice is the meal for one member of a party. GuestNumber is 1-based.
type MealChoice struct {
	GuestNumber int    `json:"guestNumber"`
	Meal        Meal   `json:"meal"`
	GuestName   string `json:"guestName,omitempty"`
}

type RSVPResponse struct {
	GuestID         string       `json:"guestId"`
	GuestName       string       `json:"guestName"`
	Attending       bool         `json:"attending"`
	NumberOfGuests  int          `json:"numberOfGuests"`
	MealChoices     []MealChoice `json:"mealChoices"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	SubmittedAt     time.Time    `json:"submittedAt"`
}

// Check verifies the invariants every persisted response must hold.
func (r RSVPResponse) Check() error {
	if strings.TrimSpace(r.GuestID) == "" {
		return errors.New("guestId is empty")
	}
	if !r.Attending && (r.NumberOfGuests != 0 || len(r.MealChoices) != 0) {
		return fmt.Errorf("guest %s is not attending but has %d guests and %d meal choices",
			r.GuestID, r.NumberOfGuests, len(r.MealChoices))
	}
	if r.NumberOfGuests < 0 {
		return fmt.Errorf("guest %s has a negative party size", r.GuestID)
	}
	return nil
}

// Submission is the client payload for an RSVP. The server stamps SubmittedAt.
type Submission struct {
	GuestID         string       `json:"guestId"`
	GuestName       string       `json:"guestName"`
	Attending       bool         `json:"attending"`
	NumberOfGuests  int          `json:"numberOfGuests"`
	MealChoices     []MealChoice `json:"mealChoices"`
	SpecialRequests string       `json:"specialRequests"`
}

// Normalize trims text fields, orders meal choices by guest number and clears
// the party details of a guest who declined.
func (s *Submission) Normalize() {
	s.GuestID = strings.TrimSpace(s.GuestID)
	s.GuestName = strings.TrimSpace(s.GuestName)
	s.SpecialRequests = strings.TrimSpace(s.SpecialRequests)

	if !s.Attending {
		s.NumberOfGuests = 0
		s.MealChoices = []MealChoice{}
		return
	}

	for i := range s.MealChoices {
		s.MealChoices[i].GuestName = strings.TrimSpace(s.MealChoices[i].GuestName)
		s.MealChoices[i].Meal = Meal(strings.ToLower(strings.TrimSpace(string(s.MealChoices[i].Meal))))
	}
	slices.SortStableFunc(s.MealChoices, func(a, b MealChoice) int {
		return a.GuestNumber - b.GuestNumber
	})
}

// Validate reports every problem with a normalized submission. maxGuests is the
// party size allowed for the guest. The returned error wraps ErrInvalidSubmission.
func (s Submission) Validate(maxGuests int) error {
	var err error

	if s.GuestID == "" {
		err = multierr.Append(err, errors.New("guestId is required"))
	}

	if s.Attending {
		switch {
		case s.NumberOfGuests < 1:
			err = multierr.Append(err, errors.New("numberOfGuests must be at least 1 when attending"))
		case s.NumberOfGuests > maxGuests:
			err = multierr.Append(err, fmt.Errorf("numberOfGuests must not exceed %d", maxGuests))
		}
		if len(s.MealChoices) != s.NumberOfGuests {
			err = multierr.Append(err, fmt.Errorf("expected %d meal choices, got %d", s.NumberOfGuests, len(s.MealChoices)))
		}
		for i, choice := range s.MealChoices {
			if choice.GuestNumber != i+1 {
				err = multierr.Append(err, fmt.Errorf("meal choice %d has guestNumber %d", i+1, choice.GuestNumber))
			}
			if !choice.Meal.Valid() {
				err = multierr.Append(err, fmt.Errorf("meal choice %d has unknown meal %q", i+1, choice.Meal))
			}
		}
	}

	if utf8.RuneCountInString(s.SpecialRequests) > MaxSpecialRequests {
		err = multierr.Append(err, fmt.Errorf("specialRequests must not exceed %d characters", MaxSpecialRequests))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}
	return nil
}

// Problems lists the individual failures in an error returned by Validate, in
// the order they were found. It returns nil for any other error.
func Problems(err error) []string {
	u, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	var out []string
	for _, e := range u.Unwrap() {
		if e == ErrInvalidSubmission {
			continue
		}
		for _, p := range multierr.Errors(e) {
			out = append(out, p.Error())
		}
	}
	return out
}

// Response builds the record to persist, stamped with submittedAt.
func (s Submission) Response(submittedAt time.Time) RSVPResponse {
	meals := s.MealChoices
	if meals == nil {
		meals = []MealChoice{}
	}
	return RSVPResponse{
		GuestID:         s.GuestID,
		GuestName:       s.GuestName,
		Attending:       s.Attending,
		NumberOfGuests:  s.NumberOfGuests,
		MealChoices:     meals,
		SpecialRequests: s.SpecialRequests,
		SubmittedAt:     submittedAt.UTC(),
	}
}

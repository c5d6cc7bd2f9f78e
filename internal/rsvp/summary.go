package rsvp

import "github.com/AlexTLDR/wedding/internal/models"

// Summary is the dashboard view of all responses.
type Summary struct {
	TotalResponses int
	Attending      []models.RSVPResponse
	NotAttending   []models.RSVPResponse
	TotalGuests    int
	MealCounts     map[models.Meal]int
}

// Summarize partitions responses by attendance and counts guests and meals
// of attending parties.
func Summarize(responses []models.RSVPResponse) Summary {
	s := Summary{
		TotalResponses: len(responses),
		Attending:      []models.RSVPResponse{},
		NotAttending:   []models.RSVPResponse{},
		MealCounts:     make(map[models.Meal]int),
	}
	for _, r := range responses {
		if !r.Attending {
			s.NotAttending = append(s.NotAttending, r)
			continue
		}
		s.Attending = append(s.Attending, r)
		s.TotalGuests += r.NumberOfGuests
		for _, m := range r.MealChoices {
			s.MealCounts[m.Meal]++
		}
	}
	return s
}

// Pending lists guests without a response, in directory order.
func Pending(guests []models.Guest, responses []models.RSVPResponse) []models.Guest {
	answered := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		answered[r.GuestID] = struct{}{}
	}
	pending := []models.Guest{}
	for _, g := range guests {
		if _, ok := answered[g.ID]; !ok {
			pending = append(pending, g)
		}
	}
	return pending
}

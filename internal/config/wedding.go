package config

import (
	"strings"
	"time"

	"github.com/AlexTLDR/wedding/internal/models"
)

// rsvpLeadTime is how long before the wedding guests are asked to respond.
const rsvpLeadTime = 21 * 24 * time.Hour

const rsvpFallback = "Please respond by 3 weeks before the wedding"

// weddingDateLayouts are the accepted spellings of DATE, tried in order.
var weddingDateLayouts = []string{
	"Monday, January 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

func loadWedding() models.WeddingDetails {
	date := getEnv("DATE", "")
	return models.WeddingDetails{
		BrideName:    getEnv("BRIDE_NAME", ""),
		GroomName:    getEnv("GROOM_NAME", ""),
		Date:         date,
		Time:         getEnv("TIME", ""),
		CeremonyTime: getEnv("CEREMONY_TIME", ""),
		RSVPBy:       RSVPBy(date),
		Venue: models.Venue{
			Name:    getEnv("VENUE_NAME", ""),
			Address: getEnv("VENUE_ADDRESS", ""),
			City:    getEnv("VENUE_CITY", ""),
		},
	}
}

// RSVPBy returns the respond-by date three weeks before the wedding date,
// or a generic reminder when the date cannot be parsed.
func RSVPBy(weddingDate string) string {
	weddingDate = strings.TrimSpace(weddingDate)
	for _, layout := range weddingDateLayouts {
		if d, err := time.Parse(layout, weddingDate); err == nil {
			return d.Add(-rsvpLeadTime).Format("Monday, January 2, 2006")
		}
	}
	return rsvpFallback
}

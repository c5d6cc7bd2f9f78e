package models

// WeddingDetails is the event information shown on every page.
type WeddingDetails struct {
	BrideName    string `json:"brideName"`
	GroomName    string `json:"groomName"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	CeremonyTime string `json:"ceremonyTime"`
	RSVPBy       string `json:"rsvpDate"`
	Venue        Venue  `json:"venue"`
}

type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Couple renders "Bride & Groom", tolerating a missing name.
func (w WeddingDetails) Couple() string {
	switch {
	case w.BrideName != "" && w.GroomName != "":
		return w.BrideName + " & " + w.GroomName
	case w.BrideName != "":
		return w.BrideName
	default:
		return w.GroomName
	}
}

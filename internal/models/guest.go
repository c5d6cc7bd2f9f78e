package models

// Guest is an invitee from the static directory. Guests are never created at runtime.
type Guest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	UniqueURL string `json:"uniqueUrl"`
	MaxGuests int    `json:"maxGuests"`
}

package guests

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AlexTLDR/wedding/internal/models"
	"github.com/AlexTLDR/wedding/internal/utils"
)

var ErrInvalidDirectory = errors.New("invalid guest directory")

// Directory is the read-only list of invitees.
type Directory struct {
	guests []models.Guest
	byURL  map[string]int
	byID   map[string]int
}

// guestRecord is the configured shape of a guest. Older configurations used
// "email" for the contact and "plusOne" instead of "maxGuests".
type guestRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	UniqueURL string `json:"uniqueUrl"`
	PlusOne   bool   `json:"plusOne"`
	MaxGuests int    `json:"maxGuests"`
}

// Parse builds a directory from a JSON array of guests. Empty input yields an
// empty directory. phoneRegion is used to normalize phone contacts.
func Parse(data []byte, phoneRegion string) (*Directory, error) {
	var records []guestRecord
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDirectory, err)
		}
	}

	list := make([]models.Guest, 0, len(records))
	for _, rec := range records {
		list = append(list, rec.guest(phoneRegion))
	}
	return New(list)
}

// New indexes guests, rejecting empty or duplicate URLs and ids.
func New(list []models.Guest) (*Directory, error) {
	d := &Directory{
		guests: list,
		byURL:  make(map[string]int, len(list)),
		byID:   make(map[string]int, len(list)),
	}
	for i, g := range list {
		if g.UniqueURL == "" {
			return nil, fmt.Errorf("%w: guest %d (%s) has no uniqueUrl", ErrInvalidDirectory, i, g.Name)
		}
		if _, ok := d.byURL[g.UniqueURL]; ok {
			return nil, fmt.Errorf("%w: duplicate uniqueUrl %q", ErrInvalidDirectory, g.UniqueURL)
		}
		if _, ok := d.byID[g.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDirectory, g.ID)
		}
		d.byURL[g.UniqueURL] = i
		d.byID[g.ID] = i
	}
	return d, nil
}

// All returns the guests in configured order.
func (d *Directory) All() []models.Guest {
	out := make([]models.Guest, len(d.guests))
	copy(out, d.guests)
	return out
}

// ByURL looks up a guest by the token in their invitation link. Matching is exact.
func (d *Directory) ByURL(token string) (models.Guest, bool) {
	i, ok := d.byURL[token]
	if !ok {
		return models.Guest{}, false
	}
	return d.guests[i], true
}

func (d *Directory) ByID(id string) (models.Guest, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Guest{}, false
	}
	return d.guests[i], true
}

func (d *Directory) Len() int {
	return len(d.guests)
}

func (r guestRecord) guest(phoneRegion string) models.Guest {
	uniqueURL := strings.TrimSpace(r.UniqueURL)

	id := strings.TrimSpace(r.ID)
	if id == "" && uniqueURL != "" {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(uniqueURL)).String()
	}

	contact := r.Contact
	if contact == "" {
		contact = r.Email
	}

	maxGuests := r.MaxGuests
	if maxGuests <= 0 {
		maxGuests = 1
		if r.PlusOne {
			maxGuests = 2
		}
	}

	return models.Guest{
		ID:        id,
		Name:      strings.TrimSpace(r.Name),
		Contact:   utils.NormalizeContact(contact, phoneRegion),
		UniqueURL: uniqueURL,
		MaxGuests: maxGuests,
	}
}

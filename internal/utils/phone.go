package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber normalizes a phone number to E.164 format.
// Numbers without a country code are parsed for defaultRegion (ISO 3166-1 alpha-2).
func NormalizePhoneNumber(phone, defaultRegion string) (string, error) {
	phone = strings.TrimSpace(phone)

	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeContact canonicalizes a guest contact: e-mail addresses are lower-cased,
// phone numbers become E.164, anything else is returned trimmed and unchanged.
func NormalizeContact(contact, defaultRegion string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ""
	}
	if strings.Contains(contact, "@") {
		return strings.ToLower(contact)
	}
	if normalized, err := NormalizePhoneNumber(contact, defaultRegion); err == nil {
		return normalized
	}
	return contact
}

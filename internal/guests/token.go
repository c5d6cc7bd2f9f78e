package guests

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns a random token suitable for a new invitation URL.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package utils

import (
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		region      string
		expected    string
		shouldError bool
	}{
		{
			name:     "US number without country code",
			input:    "201-555-0123",
			region:   "US",
			expected: "+12015550123",
		},
		{
			name:     "US number with punctuation",
			input:    "(201) 555-0123",
			region:   "US",
			expected: "+12015550123",
		},
		{
			name:     "US number with country code and spaces",
			input:    "  +1 201 555 0123 ",
			region:   "US",
			expected: "+12015550123",
		},
		{
			name:     "Romanian mobile without country code",
			input:    "0721 234 567",
			region:   "RO",
			expected: "+40721234567",
		},
		{
			name:     "Romanian mobile with country code parsed for another region",
			input:    "+40721234567",
			region:   "US",
			expected: "+40721234567",
		},
		{
			name:     "German mobile with dashes",
			input:    "+49-170-1234567",
			region:   "US",
			expected: "+491701234567",
		},
		{
			name:        "Romanian local number parsed as US",
			input:       "0721234567",
			region:      "US",
			shouldError: true,
		},
		{
			name:        "Too short",
			input:       "123",
			region:      "US",
			shouldError: true,
		},
		{
			name:        "Letters",
			input:       "abcdefghij",
			region:      "US",
			shouldError: true,
		},
		{
			name:        "Empty string",
			input:       "",
			region:      "US",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizePhoneNumber(tt.input, tt.region)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error for input %q, but got result %q", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for input %q: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("For input %q, expected %q but got %q", tt.input, tt.expected, result)
			}
		})
	}
}

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: " Ana@Example.COM ", expected: "ana@example.com"},
		{input: "201-555-0123", expected: "+12015550123"},
		{input: "ask Maria", expected: "ask Maria"},
		{input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeContact(tt.input, "US"); got != tt.expected {
				t.Errorf("NormalizeContact(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// TestFormatAddress truncates long identifiers and keeps short ones
func TestFormatAddress(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"long address", "0x1234567890abcdef1234567890abcdef12345678", "0x123456...5678"},
		{"short id", "prop-1", "prop-1"},
		{"empty", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatAddress(tc.input); got != tc.want {
				t.Errorf("formatAddress(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// TestHumanizeTime buckets elapsed time into readable labels
func TestHumanizeTime(t *testing.T) {
	now := time.Now()
	testCases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5 min ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days ago", now.Add(-48 * time.Hour), "2 days ago"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeTime(tc.t); got != tc.want {
				t.Errorf("humanizeTime = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestPriceLabel never shows an unverified value
func TestPriceLabel(t *testing.T) {
	hidden := estate.Property{DisclosedValue: 900}
	if got := priceLabel(hidden); !strings.Contains(got, "Encrypted") {
		t.Errorf("unverified price rendered as %q", got)
	}

	verified := estate.Property{Verified: true, DisclosedValue: 900}
	if got := priceLabel(verified); got != "$900K" {
		t.Errorf("verified price rendered as %q, want $900K", got)
	}
}

// TestSanitizeNumeric strips non-digit input
func TestSanitizeNumeric(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"123", "123"},
		{"1a2b3", "123"},
		{"abc", ""},
		{"", ""},
		{"-45.6", "456"},
	}
	for _, tc := range testCases {
		if got := sanitizeNumeric(tc.input); got != tc.want {
			t.Errorf("sanitizeNumeric(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

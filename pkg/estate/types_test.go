package estate_test

import (
	"strings"
	"testing"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// TestParsePrice verifies the lenient draft parsing policy
func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  uint64
	}{
		{"plain number", "1000000", 1000000},
		{"zero", "0", 0},
		{"surrounding whitespace", "  2500 ", 2500},
		{"empty input", "", 0},
		{"non-numeric input", "abc", 0},
		{"negative input", "-5", 0},
		{"decimal input", "12.5", 0},
		{"overflow", "99999999999999999999999", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := estate.ParsePrice(tc.input); got != tc.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

// TestParseCount shares the policy of ParsePrice
func TestParseCount(t *testing.T) {
	if got := estate.ParseCount("4"); got != 4 {
		t.Errorf("ParseCount(\"4\") = %d, want 4", got)
	}
	if got := estate.ParseCount("four"); got != 0 {
		t.Errorf("ParseCount(\"four\") = %d, want 0", got)
	}
}

// FuzzParsePrice ensures parsing never panics and never produces a
// value for invalid input
func FuzzParsePrice(f *testing.F) {
	f.Add("1000000")
	f.Add("")
	f.Add("abc")
	f.Add("-1")
	f.Add("18446744073709551615")

	f.Fuzz(func(t *testing.T, s string) {
		v := estate.ParsePrice(s)
		if v != 0 {
			// A non-zero result must round-trip as a decimal integer.
			if estate.ParsePrice(strings.TrimSpace(s)) != v {
				t.Errorf("ParsePrice(%q) unstable under trimming", s)
			}
		}
	})
}

// TestNewPropertyID checks the id shape and uniqueness
func TestNewPropertyID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := estate.NewPropertyID()
		if !strings.HasPrefix(id, "property-") {
			t.Fatalf("id %q missing property- prefix", id)
		}
		if parts := strings.Split(id, "-"); len(parts) != 3 {
			t.Fatalf("id %q has %d segments, want 3", id, len(parts))
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

// TestVerifiedValue ensures unverified values are never exposed
func TestVerifiedValue(t *testing.T) {
	p := estate.Property{DisclosedValue: 750000}
	if v, ok := p.VerifiedValue(); ok || v != 0 {
		t.Errorf("unverified property exposed value %d", v)
	}

	p.Verified = true
	if v, ok := p.VerifiedValue(); !ok || v != 750000 {
		t.Errorf("verified property returned (%d, %v), want (750000, true)", v, ok)
	}
}

package estate_test

import (
	"fmt"
	"testing"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

func makeProperties(n int) []estate.Property {
	out := make([]estate.Property, n)
	for i := range out {
		out[i] = estate.Property{
			ID:   fmt.Sprintf("property-%d", i),
			Name: fmt.Sprintf("Villa %d", i),
		}
	}
	return out
}

// TestCacheReplace verifies full-replace semantics: the cache content is
// exactly the last replacement, never a merge
func TestCacheReplace(t *testing.T) {
	c := estate.NewCache()

	c.Replace(makeProperties(7))
	if c.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", c.Len())
	}

	// A smaller replacement must shrink the cache, proving nothing is
	// merged or retained from the previous generation.
	c.Replace(makeProperties(3))
	if c.Len() != 3 {
		t.Fatalf("Len() after shrink = %d, want 3", c.Len())
	}

	c.Replace(nil)
	if c.Len() != 0 {
		t.Fatalf("Len() after empty replace = %d, want 0", c.Len())
	}
}

// TestCacheSnapshotIsolation ensures mutating a returned snapshot cannot
// corrupt the cache
func TestCacheSnapshotIsolation(t *testing.T) {
	c := estate.NewCache()
	c.Replace(makeProperties(2))

	snap := c.Records()
	snap[0].Name = "mutated"

	if got := c.Records()[0].Name; got != "Villa 0" {
		t.Errorf("cache record changed through snapshot: %q", got)
	}
}

// TestCacheVerifiedCount counts only verified records
func TestCacheVerifiedCount(t *testing.T) {
	records := makeProperties(4)
	records[1].Verified = true
	records[3].Verified = true

	c := estate.NewCache()
	c.Replace(records)
	if got := c.VerifiedCount(); got != 2 {
		t.Errorf("VerifiedCount() = %d, want 2", got)
	}
}

// TestFilter checks case-insensitive matching over name and description
func TestFilter(t *testing.T) {
	records := []estate.Property{
		{ID: "a", Name: "Sunset Villa", Description: "Beachfront"},
		{ID: "b", Name: "City Loft", Description: "Downtown views"},
		{ID: "c", Name: "Mountain Cabin", Description: "Quiet villa retreat"},
	}

	testCases := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{"empty term returns all", "", []string{"a", "b", "c"}},
		{"name match", "loft", []string{"b"}},
		{"description match", "beach", []string{"a"}},
		{"match in either field", "villa", []string{"a", "c"}},
		{"case insensitive", "VILLA", []string{"a", "c"}},
		{"no match", "castle", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := estate.Filter(records, tc.term)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("Filter(%q) returned %d records, want %d", tc.term, len(got), len(tc.wantIDs))
			}
			for i, p := range got {
				if p.ID != tc.wantIDs[i] {
					t.Errorf("Filter(%q)[%d].ID = %q, want %q", tc.term, i, p.ID, tc.wantIDs[i])
				}
			}
		})
	}
}

// TestPagination verifies the fixed page size over a 12-record set:
// pages of 5, 5 and 2
func TestPagination(t *testing.T) {
	records := makeProperties(12)

	if got := estate.PageCount(len(records)); got != 3 {
		t.Fatalf("PageCount(12) = %d, want 3", got)
	}

	testCases := []struct {
		page    int
		wantLen int
		firstID string
	}{
		{1, 5, "property-0"},
		{2, 5, "property-5"},
		{3, 2, "property-10"},
		{4, 0, ""},
		{0, 0, ""},
		{-1, 0, ""},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			got := estate.Page(records, tc.page)
			if len(got) != tc.wantLen {
				t.Fatalf("Page(%d) returned %d records, want %d", tc.page, len(got), tc.wantLen)
			}
			if tc.wantLen > 0 && got[0].ID != tc.firstID {
				t.Errorf("Page(%d)[0].ID = %q, want %q", tc.page, got[0].ID, tc.firstID)
			}
		})
	}
}

// TestPageCountEdges covers the empty and exact-multiple cases
func TestPageCountEdges(t *testing.T) {
	testCases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{5, 1},
		{6, 2},
		{10, 2},
	}
	for _, tc := range testCases {
		if got := estate.PageCount(tc.n); got != tc.want {
			t.Errorf("PageCount(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

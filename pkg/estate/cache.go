package estate

import (
	"strings"
	"sync"
)

// PageSize is the fixed number of records per page view.
const PageSize = 5

// Cache is the in-memory collection of asset records for the session.
// It exclusively owns the records: mutation happens only by replacing the
// contents wholesale after a ledger re-read, never by patching fields in
// place. Search and pagination are pure functions over a snapshot.
type Cache struct {
	mu      sync.RWMutex
	records []Property
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps in a fresh set of records read from the ledger.
func (c *Cache) Replace(records []Property) {
	cp := make([]Property, len(records))
	copy(cp, records)

	c.mu.Lock()
	c.records = cp
	c.mu.Unlock()
}

// Records returns a snapshot of the cached records.
func (c *Cache) Records() []Property {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Property, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// VerifiedCount returns how many cached records have a disclosed price.
func (c *Cache) VerifiedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, p := range c.records {
		if p.Verified {
			n++
		}
	}
	return n
}

// Filter returns the records whose name or description contains term,
// case-insensitively. An empty term returns the input unchanged.
func Filter(records []Property, term string) []Property {
	if term == "" {
		return records
	}
	term = strings.ToLower(term)

	var out []Property
	for _, p := range records {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// Page returns the 1-based page of records at the fixed page size.
// Out-of-range pages return an empty slice.
func Page(records []Property, page int) []Property {
	if page < 1 {
		return nil
	}
	start := (page - 1) * PageSize
	if start >= len(records) {
		return nil
	}
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// PageCount returns how many pages n records span.
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

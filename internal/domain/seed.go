package domain

import (
	"strings"
	"time"
)

// Seed is a search query used to discover candidate URLs. Queries are
// lowercased and trimmed so the same words always map to the same seed.
type Seed struct {
	// Query is the normalized query string, also the seed's identity.
	Query string `json:"query"`
	// Source tells who or what created the seed.
	Source Source `json:"source"`
	// Count is the total number of new URLs over all uses.
	Count int `json:"count"`
	// LastUse is the date of the most recent search, zero if never used.
	LastUse time.Time `json:"last_use"`

	// NewLinks accumulates the URLs accepted during the current run.
	NewLinks []string `json:"-"`
}

// NewSeed builds a seed from a raw query string.
func NewSeed(query string, source Source) *Seed {
	return &Seed{Query: NormalizeQuery(query), Source: source}
}

// NormalizeQuery lowercases and trims a query so lookups are stable.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// IsNew reports whether the seed has never been used in a search.
func (s *Seed) IsNew() bool {
	return s.LastUse.IsZero()
}

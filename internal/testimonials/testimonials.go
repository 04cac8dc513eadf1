// Package testimonials deterministically assigns a testimonial reference to
// each location, stable across runs so regenerating a page keeps its quote.
package testimonials

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// statePool and cityPool are the testimonial keys available to each page kind.
// The pools are distinct sets so state and city pages draw different quotes.
var statePool = []string{
	"agency-partner-rebuild",
	"plugin-rescue",
	"longterm-maintenance",
	"ecommerce-migration",
	"security-cleanup",
	"api-integration-project",
}

var cityPool = []string{
	"local-firm-redesign",
	"multisite-consolidation",
	"performance-overhaul",
	"membership-site-build",
	"emergency-fix",
	"white-label-partner",
	"nonprofit-site",
	"booking-integration",
}

// Testimonial is one pool record: the stable key identifying the quote and
// the id of the WordPress reusable block that renders it.
type Testimonial struct {
	Key        string
	BlockRefID int64
}

// BlockRef renders the record's reusable-block reference, or an empty string
// when no block id is configured for its key.
func (t Testimonial) BlockRef() string {
	return BlockRef(t.BlockRefID)
}

// Selector picks a testimonial record per location seed. The same seed always
// yields the same record, so a page keeps its quote across regenerations.
type Selector struct {
	statePool []Testimonial
	cityPool  []Testimonial
}

// NewSelector builds a selector whose records carry the reusable block ids
// configured per testimonial key. Keys missing from the map get a zero id and
// render no block reference.
func NewSelector(blockIDs map[string]int64) *Selector {
	return &Selector{
		statePool: buildPool(statePool, blockIDs),
		cityPool:  buildPool(cityPool, blockIDs),
	}
}

func buildPool(keys []string, blockIDs map[string]int64) []Testimonial {
	out := make([]Testimonial, len(keys))
	for i, k := range keys {
		out[i] = Testimonial{Key: k, BlockRefID: blockIDs[k]}
	}
	return out
}

// selectFrom reduces a stable checksum of the lowercased seed modulo the pool
// size. Identical seeds always yield identical picks.
func selectFrom(seed string, pool []Testimonial) Testimonial {
	if len(pool) == 0 {
		return Testimonial{}
	}
	sum := crc32.ChecksumIEEE([]byte(strings.ToLower(seed)))
	return pool[int(sum)%len(pool)]
}

// ForState returns the testimonial record for a state page seed.
func (s *Selector) ForState(seed string) Testimonial {
	return selectFrom(seed, s.statePool)
}

// ForCity returns the testimonial record for a city page seed.
func (s *Selector) ForCity(seed string) Testimonial {
	return selectFrom(seed, s.cityPool)
}

// BlockRef renders a reusable-block reference comment, or an empty string for
// an unconfigured (zero) id.
func BlockRef(id int64) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf(`<!-- wp:block {"ref":%d} /-->`, id)
}

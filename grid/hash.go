package grid

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NormalizeSpecies folds a species name so case and surrounding
// whitespace variants of the same name collapse to one identity.
func NormalizeSpecies(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IdentityHash collapses a normalized species name into a 64-bit
// surrogate, so per-cell distinct sets hold 8 bytes per species instead
// of the full string. Not a security hash; at the expected per-cell
// cardinality (low thousands) collisions in a 64-bit space are
// negligible.
func IdentityHash(normalized string) uint64 {
	return xxhash.Sum64String(normalized)
}

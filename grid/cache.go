package grid

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"

	"go-biomap/types"
)

// CellSizeKey canonicalizes a cell size into a cache key. Shortest exact
// decimal form, so 0.25 and 0.250 share an entry and float formatting
// jitter cannot split keys.
func CellSizeKey(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

// snapshotStore holds the latest computed grid per cell size. Entries
// never expire: a stale snapshot stays servable until wholesale replaced
// by the next refresh. Snapshots are stored as pointers and never
// mutated after publication, so readers always see a complete grid.
type snapshotStore struct {
	c *gocache.Cache
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func (s *snapshotStore) get(sizeKey string) (*types.GridSnapshot, bool) {
	v, ok := s.c.Get(sizeKey)
	if !ok {
		return nil, false
	}
	return v.(*types.GridSnapshot), true
}

func (s *snapshotStore) put(sizeKey string, snap *types.GridSnapshot) {
	s.c.Set(sizeKey, snap, gocache.NoExpiration)
}

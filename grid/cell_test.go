package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-biomap/types"
)

func TestCellKeyForPartition(t *testing.T) {
	// Two nearby points share a 0.25 degree cell, a distant one does not.
	a := CellKeyFor(-10.1, -50.2, 0.25)
	b := CellKeyFor(-10.05, -50.15, 0.25)
	c := CellKeyFor(10.0, 10.0, 0.25)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCellKeyForNegativeCoordinates(t *testing.T) {
	key := CellKeyFor(-10.1, -50.2, 0.25)
	// (-10.1+90)/0.25 = 319.6, (-50.2+180)/0.25 = 519.2
	assert.Equal(t, types.CellKey{Row: 319, Col: 519}, key)
}

func TestBoundsForContainsPoint(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		size     float64
	}{
		{"southern hemisphere", -10.1, -50.2, 0.25},
		{"northern hemisphere", 10.0, 10.0, 0.25},
		{"origin", 0, 0, 1},
		{"tiny cell", 48.8566, 2.3522, 0.005},
		{"huge cell", -33.9, 151.2, 10},
		{"south pole", -90, -180, 0.5},
		// Out-of-range coordinates are accepted on purpose: data-entry
		// errors land in a far-flung cell instead of being rejected.
		{"latitude out of range", 200, 10, 0.25},
		{"longitude out of range", 10, 500, 0.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := CellKeyFor(tc.lat, tc.lng, tc.size)
			bounds := BoundsFor(key, tc.size)

			assert.GreaterOrEqual(t, tc.lat, bounds.MinLat)
			assert.Less(t, tc.lat, bounds.MaxLat)
			assert.GreaterOrEqual(t, tc.lng, bounds.MinLng)
			assert.Less(t, tc.lng, bounds.MaxLng)
			assert.InDelta(t, tc.size, bounds.MaxLat-bounds.MinLat, 1e-9)
			assert.InDelta(t, tc.size, bounds.MaxLng-bounds.MinLng, 1e-9)
		})
	}
}

func TestCellsAreHalfOpen(t *testing.T) {
	// A point exactly on a cell edge belongs to the higher cell.
	below := CellKeyFor(9.999, 0, 0.25)
	edge := CellKeyFor(10.0, 0, 0.25)
	require.Equal(t, below.Row+1, edge.Row)

	bounds := BoundsFor(edge, 0.25)
	assert.Equal(t, 10.0, bounds.MinLat)
}

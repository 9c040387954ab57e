package grid

import (
	"math"

	"go-biomap/types"
)

// CellKeyFor maps a coordinate pair to its cell in a degree grid of the
// given cell size. size must be positive; callers clamp before calling.
// Coordinates outside [-90,90]x[-180,180] are not rejected here: bad
// data still keys into a (far-flung) cell.
func CellKeyFor(lat, lng, size float64) types.CellKey {
	return types.CellKey{
		Row: int(math.Floor((lat + 90) / size)),
		Col: int(math.Floor((lng + 180) / size)),
	}
}

// BoundsFor reconstructs the rectangle a cell covers: the exact inverse
// of CellKeyFor, so the bounds always contain every point that keyed to
// the cell.
func BoundsFor(key types.CellKey, size float64) types.CellBounds {
	minLat := float64(key.Row)*size - 90
	minLng := float64(key.Col)*size - 180
	return types.CellBounds{
		MinLat: minLat,
		MinLng: minLng,
		MaxLat: minLat + size,
		MaxLng: minLng + size,
	}
}

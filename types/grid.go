package types

import "time"

// CellKey identifies one cell of the degree grid at a given cell size.
// Row/Col are floor quotients, so they go negative south of the equator
// offset and west of the antimeridian offset.
type CellKey struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellBounds is the half-open rectangle [MinLat, MaxLat) x [MinLng, MaxLng)
// a cell covers, in degrees.
type CellBounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// CellResult is one populated grid cell. Metric is either an occurrence
// count or a distinct-species count depending on the snapshot mode.
type CellResult struct {
	Key    CellKey    `json:"key"`
	Metric int        `json:"metric"`
	Bounds CellBounds `json:"bounds"`
}

// GridSnapshot is the full result of one aggregation run.
// Cells are sorted descending by metric. Scanned counts every record
// examined, including ones skipped for missing coordinates. Capped means
// the scan cap was hit, so the grid is a lower bound, not exhaustive.
type GridSnapshot struct {
	Cells     []CellResult `json:"cells"`
	Scanned   int          `json:"scanned"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Capped    bool         `json:"capped"`
	Mode      string       `json:"mode"`
}

// BBox is a caller-supplied viewport rectangle.
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Contains reports whether the point lies inside the box, edges included.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

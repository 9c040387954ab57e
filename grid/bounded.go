package grid

import (
	"context"
	"fmt"
	"math"

	"go-biomap/types"
)

// BoundedParams describe one ad-hoc viewport query. All fields are
// optional; garbage values are clamped or dropped rather than rejected.
type BoundedParams struct {
	BBox        *types.BBox
	CellSizeDeg float64
	ScanCap     int
	Equality    map[string]string
	Ranges      []RangeFilter
}

func clampCellSize(size, fallback float64) float64 {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return fallback
	}
	if size < MinCellSizeDeg {
		return MinCellSizeDeg
	}
	if size > MaxCellSizeDeg {
		return MaxCellSizeDeg
	}
	return size
}

// BoundedGrid synchronously streams matching records and aggregates
// occurrence counts for the caller's viewport. Always count mode, never
// cached: every call pays for a fresh scan bounded by the scan cap.
// Equality/range predicates and the usable-coordinates requirement are
// pushed to the record store; the bbox is applied in-process. Honors ctx
// so a disconnected client aborts the scan promptly.
func (e *Engine) BoundedGrid(ctx context.Context, p BoundedParams) (*types.GridSnapshot, error) {
	size := clampCellSize(p.CellSizeDeg, e.cfg.DefaultCellSizeDeg)

	scanCap := p.ScanCap
	if scanCap <= 0 {
		scanCap = e.cfg.ScanCap
	}

	bbox := p.BBox
	if bbox != nil && (bbox.South > bbox.North || bbox.West > bbox.East) {
		bbox = nil // degenerate viewport, treat as absent
	}

	src, err := e.provider.OpenStream(ctx, StreamQuery{
		Equality:      p.Equality,
		Ranges:        p.Ranges,
		RequireCoords: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening occurrence stream: %w", err)
	}

	return Aggregate(ctx, src, Params{
		CellSizeDeg: size,
		ScanCap:     scanCap,
		Mode:        ModeCount,
		Within:      bbox,
	})
}

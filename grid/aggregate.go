package grid

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"google.golang.org/api/iterator"

	"go-biomap/types"
)

// Aggregation modes.
const (
	ModeCount    = "count"    // raw occurrences per cell
	ModeRichness = "richness" // distinct species per cell
)

// progressInterval bounds how often a long scan logs progress. Time
// based on purpose: a slow stream must not flood the log.
const progressInterval = 10 * time.Second

// Params configure one aggregation run.
type Params struct {
	CellSizeDeg float64
	ScanCap     int
	Mode        string
	Within      *types.BBox // optional in-process viewport restriction
}

// Aggregate consumes src one record at a time and buckets each record
// into its grid cell, accumulating either a count or a distinct-species
// set per cell depending on Mode.
//
// Scanned counts every record examined. Records without usable
// coordinates, outside Within, or (richness mode) with an empty species
// name after normalization are skipped for accumulation but still
// scanned. The stream stops being consumed, not just counted, once
// scanned exceeds ScanCap; the resulting snapshot is marked Capped and
// callers must treat it as a lower bound.
func Aggregate(ctx context.Context, src RecordSource, p Params) (*types.GridSnapshot, error) {
	defer src.Stop()

	counts := make(map[types.CellKey]int)
	var sets map[types.CellKey]map[uint64]struct{}
	if p.Mode == ModeRichness {
		sets = make(map[types.CellKey]map[uint64]struct{})
	}

	scanned := 0
	start := time.Now()
	lastProgress := start

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregation canceled after %d records: %w", scanned, err)
		}

		rec, err := src.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record stream broke after %d records: %w", scanned, err)
		}

		scanned++

		if rec.HasCoords && isFinite(rec.Lat) && isFinite(rec.Lng) &&
			(p.Within == nil || p.Within.Contains(rec.Lat, rec.Lng)) {
			key := CellKeyFor(rec.Lat, rec.Lng, p.CellSizeDeg)
			if p.Mode == ModeRichness {
				if name := NormalizeSpecies(rec.Species); name != "" {
					set := sets[key]
					if set == nil {
						set = make(map[uint64]struct{})
						sets[key] = set
					}
					set[IdentityHash(name)] = struct{}{}
				}
			} else {
				counts[key]++
			}
		}

		// Stop consuming, not just counting, once past the cap.
		if scanned > p.ScanCap {
			break
		}

		if now := time.Now(); now.Sub(lastProgress) >= progressInterval {
			cellCount := len(counts)
			if p.Mode == ModeRichness {
				cellCount = len(sets)
			}
			elapsed := now.Sub(start)
			log.Printf("Grid aggregation progress: %d records in %s (%.0f/s), %d cells so far",
				scanned, elapsed.Round(time.Second), float64(scanned)/elapsed.Seconds(), cellCount)
			lastProgress = now
		}
	}

	var cells []types.CellResult
	if p.Mode == ModeRichness {
		for key, set := range sets {
			cells = append(cells, types.CellResult{
				Key:    key,
				Metric: len(set),
				Bounds: BoundsFor(key, p.CellSizeDeg),
			})
		}
	} else {
		for key, n := range counts {
			cells = append(cells, types.CellResult{
				Key:    key,
				Metric: n,
				Bounds: BoundsFor(key, p.CellSizeDeg),
			})
		}
	}

	// Descending by metric; order between equal metrics is unspecified.
	sort.Slice(cells, func(i, j int) bool { return cells[i].Metric > cells[j].Metric })

	return &types.GridSnapshot{
		Cells:     cells,
		Scanned:   scanned,
		UpdatedAt: time.Now().UTC(),
		Capped:    scanned >= p.ScanCap,
		Mode:      p.Mode,
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

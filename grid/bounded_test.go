package grid

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-biomap/types"
)

func TestClampCellSize(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 0.5, 0.5},
		{"zero falls back", 0, 0.25},
		{"negative falls back", -1, 0.25},
		{"nan falls back", math.NaN(), 0.25},
		{"inf falls back", math.Inf(1), 0.25},
		{"too small clamps", 0.0001, MinCellSizeDeg},
		{"too large clamps", 1000, MaxCellSizeDeg},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampCellSize(tc.in, 0.25))
		})
	}
}

func TestBoundedGridCountsWithinViewport(t *testing.T) {
	provider := &fakeProvider{srcs: []RecordSource{&fakeSource{records: []types.OccurrenceRecord{
		rec(1.0, 1.0, "Ara macao"),
		rec(2.5, 2.5, "Ara macao"),
		rec(40.0, 40.0, "Panthera onca"), // outside viewport
	}}}}
	engine := NewEngine(provider, Config{ScanCap: 1000})

	snap, err := engine.BoundedGrid(context.Background(), BoundedParams{
		BBox:        &types.BBox{South: 0, West: 0, North: 5, East: 5},
		CellSizeDeg: 1,
		Equality:    map[string]string{"species": "Ara macao"},
	})
	require.NoError(t, err)

	assert.Equal(t, ModeCount, snap.Mode, "on-demand path is count mode only")
	assert.Equal(t, 3, snap.Scanned)
	require.Len(t, snap.Cells, 2)

	// Source pre-filtering is pushed down.
	assert.True(t, provider.lastQuery.RequireCoords)
	assert.Equal(t, "Ara macao", provider.lastQuery.Equality["species"])
}

func TestBoundedGridNeverTouchesCache(t *testing.T) {
	provider := &fakeProvider{srcs: []RecordSource{&fakeSource{records: []types.OccurrenceRecord{
		rec(1.0, 1.0, ""),
	}}}}
	engine := NewEngine(provider, Config{ScanCap: 1000})

	_, err := engine.BoundedGrid(context.Background(), BoundedParams{CellSizeDeg: 1})
	require.NoError(t, err)

	_, ok := engine.Cached(1)
	assert.False(t, ok)
}

func TestBoundedGridClampsBadParameters(t *testing.T) {
	provider := &fakeProvider{srcs: []RecordSource{&fakeSource{records: []types.OccurrenceRecord{
		rec(1.0, 1.0, ""),
	}}}}
	engine := NewEngine(provider, Config{DefaultCellSizeDeg: 0.25, ScanCap: 1000})

	// Garbage size falls back to the engine default instead of failing.
	snap, err := engine.BoundedGrid(context.Background(), BoundedParams{CellSizeDeg: math.NaN()})
	require.NoError(t, err)
	require.Len(t, snap.Cells, 1)
	b := snap.Cells[0].Bounds
	assert.InDelta(t, 0.25, b.MaxLat-b.MinLat, 1e-9)
}

func TestBoundedGridDegenerateViewportIgnored(t *testing.T) {
	provider := &fakeProvider{srcs: []RecordSource{&fakeSource{records: []types.OccurrenceRecord{
		rec(1.0, 1.0, ""),
	}}}}
	engine := NewEngine(provider, Config{ScanCap: 1000})

	// south > north: the viewport is dropped, not an error.
	snap, err := engine.BoundedGrid(context.Background(), BoundedParams{
		BBox:        &types.BBox{South: 10, West: 0, North: 0, East: 5},
		CellSizeDeg: 1,
	})
	require.NoError(t, err)
	assert.Len(t, snap.Cells, 1)
}

func TestBoundedGridCanceled(t *testing.T) {
	provider := &fakeProvider{srcs: []RecordSource{&fakeSource{records: []types.OccurrenceRecord{
		rec(1.0, 1.0, ""),
	}}}}
	engine := NewEngine(provider, Config{ScanCap: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.BoundedGrid(ctx, BoundedParams{CellSizeDeg: 1})
	require.ErrorIs(t, err, context.Canceled)
}

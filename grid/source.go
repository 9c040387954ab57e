package grid

import (
	"context"

	"go-biomap/types"
)

// RecordSource yields occurrence records one at a time. Next returns
// iterator.Done once the stream is exhausted; any other error means the
// stream broke mid-scan and the run must abort without a snapshot.
type RecordSource interface {
	Next() (types.OccurrenceRecord, error)
	Stop()
}

// RangeFilter is a single range predicate pushed down to the record store.
type RangeFilter struct {
	Field string
	Op    string // ">=", "<=", ">", "<"
	Value interface{}
}

// StreamQuery describes the pre-filtering and projection the record store
// applies before records reach the aggregator.
type StreamQuery struct {
	Equality      map[string]string
	Ranges        []RangeFilter
	RequireCoords bool
}

// StreamProvider opens record streams. OpenStream must fail when the
// store is not connected rather than hand back an empty stream, so
// aggregation runs can tell "no data" from "no store".
type StreamProvider interface {
	OpenStream(ctx context.Context, q StreamQuery) (RecordSource, error)
}

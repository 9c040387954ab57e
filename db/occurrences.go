package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-biomap/grid"
	"go-biomap/types"
)

// ErrSourceUnavailable means the Firestore client is not connected.
// Deliberately distinct from an empty query result, so aggregation runs
// abort instead of producing an empty grid.
var ErrSourceUnavailable = errors.New("occurrence store unavailable")

// ErrNotFound means the requested occurrence document does not exist.
var ErrNotFound = errors.New("occurrence not found")

const occurrencesCollection = "occurrences"

// FirestoreProvider streams occurrence records out of Firestore and owns
// the occurrence read/write paths.
type FirestoreProvider struct {
	Client *firestore.Client
}

func NewFirestoreProvider(client *firestore.Client) *FirestoreProvider {
	return &FirestoreProvider{Client: client}
}

// OpenStream builds the filtered query and returns a lazy iterator over
// it. The projection keeps fetched documents down to the three fields
// aggregation reads.
func (p *FirestoreProvider) OpenStream(ctx context.Context, q grid.StreamQuery) (grid.RecordSource, error) {
	if p == nil || p.Client == nil {
		return nil, ErrSourceUnavailable
	}

	query := p.Client.Collection(occurrencesCollection).Query
	for field, value := range q.Equality {
		query = query.Where(field, "==", value)
	}
	for _, r := range q.Ranges {
		query = query.Where(r.Field, r.Op, r.Value)
	}
	if q.RequireCoords {
		query = query.Where("hasCoords", "==", true)
	}
	query = query.Select("lat", "lng", "species")

	return &occurrenceStream{iter: query.Documents(ctx)}, nil
}

// occurrenceStream adapts a Firestore document iterator to the engine's
// record source. Next passes iterator.Done through untouched.
type occurrenceStream struct {
	iter *firestore.DocumentIterator
}

func (s *occurrenceStream) Next() (types.OccurrenceRecord, error) {
	doc, err := s.iter.Next()
	if err == iterator.Done {
		return types.OccurrenceRecord{}, iterator.Done
	}
	if err != nil {
		return types.OccurrenceRecord{}, fmt.Errorf("iterating occurrences: %w", err)
	}

	// Hand-entered data can miss fields or carry the wrong type, so
	// every assert keeps its ok.
	data := doc.Data()
	var rec types.OccurrenceRecord
	lat, latOk := data["lat"].(float64)
	lng, lngOk := data["lng"].(float64)
	if latOk && lngOk {
		rec.Lat = lat
		rec.Lng = lng
		rec.HasCoords = true
	}
	if species, ok := data["species"].(string); ok {
		rec.Species = species
	}
	return rec, nil
}

func (s *occurrenceStream) Stop() {
	s.iter.Stop()
}

// SaveOccurrence writes one record. The hasCoords flag is what lets
// bounded scans pre-filter unusable coordinates at the source.
func (p *FirestoreProvider) SaveOccurrence(ctx context.Context, occ types.Occurrence) error {
	if p == nil || p.Client == nil {
		return ErrSourceUnavailable
	}

	data := map[string]interface{}{
		"species":       occ.Species,
		"recordedAt":    occ.RecordedAt,
		"year":          occ.Year,
		"basisOfRecord": occ.BasisOfRecord,
		"recorder":      occ.Recorder,
		"locality":      occ.Locality,
		"taxonClass":    occ.TaxonClass,
		"hasCoords":     occ.HasCoords,
	}
	if occ.HasCoords {
		data["lat"] = occ.Lat
		data["lng"] = occ.Lng
	}

	_, err := p.Client.Collection(occurrencesCollection).Doc(occ.ID).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to save occurrence %s: %w", occ.ID, err)
	}
	return nil
}

// GetOccurrence fetches a single occurrence by document ID.
func (p *FirestoreProvider) GetOccurrence(ctx context.Context, id string) (*types.Occurrence, error) {
	if p == nil || p.Client == nil {
		return nil, ErrSourceUnavailable
	}

	doc, err := p.Client.Collection(occurrencesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching occurrence %s: %w", id, err)
	}

	var occ types.Occurrence
	if err := doc.DataTo(&occ); err != nil {
		return nil, fmt.Errorf("error converting document %s to Occurrence: %w", id, err)
	}
	occ.ID = doc.Ref.ID
	return &occ, nil
}

// SampleSpecies returns up to limit distinct species names observed
// inside the cell bounds. Firestore allows range predicates on a single
// field, so latitude is filtered at the source and longitude in-process.
func (p *FirestoreProvider) SampleSpecies(ctx context.Context, b types.CellBounds, limit int) ([]string, error) {
	if p == nil || p.Client == nil {
		return nil, ErrSourceUnavailable
	}

	iter := p.Client.Collection(occurrencesCollection).
		Where("hasCoords", "==", true).
		Where("lat", ">=", b.MinLat).
		Where("lat", "<", b.MaxLat).
		Select("lat", "lng", "species").
		Limit(limit * 5). // headroom for longitude misses
		Documents(ctx)
	defer iter.Stop()

	seen := make(map[string]bool)
	var names []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error sampling species: %w", err)
		}

		data := doc.Data()
		lng, ok := data["lng"].(float64)
		if !ok || lng < b.MinLng || lng >= b.MaxLng {
			continue
		}
		name, ok := data["species"].(string)
		if !ok || name == "" {
			continue
		}

		if key := strings.ToLower(strings.TrimSpace(name)); !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
		if len(names) >= limit {
			break
		}
	}

	return names, nil
}

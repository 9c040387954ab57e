package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"go-biomap/grid"
	"go-biomap/types"
)

type stubSource struct {
	records []types.OccurrenceRecord
	pos     int
}

func (s *stubSource) Next() (types.OccurrenceRecord, error) {
	if s.pos >= len(s.records) {
		return types.OccurrenceRecord{}, iterator.Done
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func (s *stubSource) Stop() {}

type stubProvider struct{ records []types.OccurrenceRecord }

func (p *stubProvider) OpenStream(context.Context, grid.StreamQuery) (grid.RecordSource, error) {
	return &stubSource{records: p.records}, nil
}

func testRecords() []types.OccurrenceRecord {
	return []types.OccurrenceRecord{
		{Lat: 1.0, Lng: 1.0, HasCoords: true, Species: "Ara macao"},
		{Lat: 2.5, Lng: 2.5, HasCoords: true, Species: "Panthera onca"},
		{Lat: 40.0, Lng: 40.0, HasCoords: true, Species: "Ara macao"},
	}
}

func TestGetCachedGridEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := grid.NewEngine(&stubProvider{records: testRecords()}, grid.Config{ScanCap: 1000})

	r := gin.New()
	r.GET("/grid", func(c *gin.Context) { GetCachedGrid(c, engine) })

	// Nothing cached yet: the envelope reports that instead of erroring.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grid?size=0.25", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["cached"])
	assert.Equal(t, false, body["computing"])

	require.NoError(t, engine.Refresh(0.25, grid.ModeRichness))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["cached"])
	require.NotNil(t, body["snapshot"])
}

func TestComputeBoundedGridParsesViewport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := grid.NewEngine(&stubProvider{records: testRecords()}, grid.Config{ScanCap: 1000})

	r := gin.New()
	r.GET("/grid/area", func(c *gin.Context) { ComputeBoundedGrid(c, engine) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grid/area?south=0&west=0&north=5&east=5&size=1", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var snap types.GridSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, grid.ModeCount, snap.Mode)
	assert.Equal(t, 3, snap.Scanned)
	assert.Len(t, snap.Cells, 2, "the record outside the viewport must not occupy a cell")
}

func TestComputeBoundedGridIgnoresPartialViewport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := grid.NewEngine(&stubProvider{records: testRecords()}, grid.Config{ScanCap: 1000})

	r := gin.New()
	r.GET("/grid/area", func(c *gin.Context) { ComputeBoundedGrid(c, engine) })

	// Only two of four edges: treated as no viewport at all.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/grid/area?south=0&west=0&size=1", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var snap types.GridSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Cells, 3)
}

package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-biomap/db"
	"go-biomap/types"
)

type occurrenceRequest struct {
	Species       string   `json:"species" binding:"required"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	RecordedAt    string   `json:"recordedAt"`
	Year          int      `json:"year"`
	BasisOfRecord string   `json:"basisOfRecord"`
	Recorder      string   `json:"recorder"`
	Locality      string   `json:"locality"`
	TaxonClass    string   `json:"taxonClass"`
}

// SaveOccurrence ingests one record. Coordinates are optional; a record
// without usable coordinates is stored anyway and excluded from
// coordinate-filtered scans via the hasCoords flag.
func SaveOccurrence(c *gin.Context, provider *db.FirestoreProvider) {
	var req occurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "species is required"})
		return
	}

	hasCoords := req.Lat != nil && req.Lng != nil &&
		!math.IsNaN(*req.Lat) && !math.IsInf(*req.Lat, 0) &&
		!math.IsNaN(*req.Lng) && !math.IsInf(*req.Lng, 0)

	occ := types.Occurrence{
		ID:            uuid.NewString(),
		Species:       req.Species,
		RecordedAt:    req.RecordedAt,
		Year:          req.Year,
		BasisOfRecord: req.BasisOfRecord,
		Recorder:      req.Recorder,
		Locality:      req.Locality,
		TaxonClass:    req.TaxonClass,
		HasCoords:     hasCoords,
	}
	if hasCoords {
		occ.Lat = *req.Lat
		occ.Lng = *req.Lng
	}

	if err := provider.SaveOccurrence(c.Request.Context(), occ); err != nil {
		log.Printf("ERROR saving occurrence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save occurrence"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": occ.ID})
}

// GetOccurrence fetches a single occurrence by ID.
func GetOccurrence(c *gin.Context, provider *db.FirestoreProvider) {
	occ, err := provider.GetOccurrence(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Occurrence not found"})
			return
		}
		log.Printf("ERROR fetching occurrence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve occurrence"})
		return
	}

	c.JSON(http.StatusOK, occ)
}

package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"

	"go-biomap/db"
	"go-biomap/grid"
	"go-biomap/summarization"
)

// GetHotspotSummary describes the top cells of the cached grid. Reads
// the cache only; if no snapshot exists yet the client gets the same
// cached/computing envelope as the grid endpoint.
func GetHotspotSummary(c *gin.Context, engine *grid.Engine, provider *db.FirestoreProvider, openaiClient *openai.Client) {
	snapshot, ok := engine.Cached(engine.DefaultCellSize())
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"cached":    false,
			"computing": engine.Computing(),
		})
		return
	}

	top := snapshot.Cells
	if len(top) > summarization.MaxHotspots {
		top = top[:summarization.MaxHotspots]
	}

	hotspots := make([]summarization.Hotspot, len(top))
	for i, cell := range top {
		hotspots[i] = summarization.Hotspot{Cell: cell}
	}

	if err := summarization.GenerateHotspotSummaries(c.Request.Context(), hotspots, provider, openaiClient); err != nil {
		log.Printf("ERROR generating hotspot summaries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate summaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cached":    true,
		"updatedAt": snapshot.UpdatedAt,
		"mode":      snapshot.Mode,
		"hotspots":  hotspots,
	})
}

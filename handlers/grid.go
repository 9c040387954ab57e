package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-biomap/grid"
)

// GetCachedGrid serves the latest background-computed grid. Non-blocking:
// when nothing is cached yet it reports whether a computation is in
// flight so the client can show "warming up" instead of an error. It
// never triggers a computation itself.
func GetCachedGrid(c *gin.Context, engine *grid.Engine) {
	size := engine.DefaultCellSize()
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			size = parsed
		}
	}

	snapshot, ok := engine.Cached(size)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"cached":    false,
			"computing": engine.Computing(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cached":    true,
		"computing": engine.Computing(),
		"snapshot":  snapshot,
	})
}

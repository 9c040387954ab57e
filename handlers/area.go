package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-biomap/db"
	"go-biomap/geocode"
	"go-biomap/grid"
	"go-biomap/types"
)

// ComputeBoundedGrid answers ad-hoc viewport queries with a fresh
// count-mode scan, never touching the cached grid. Parameters are
// forgiving: out-of-range numerics are clamped by the engine and a
// malformed viewport is ignored rather than rejected.
func ComputeBoundedGrid(c *gin.Context, engine *grid.Engine) {
	params := grid.BoundedParams{
		CellSizeDeg: queryFloat(c, "size"),
		ScanCap:     queryInt(c, "cap"),
	}

	if bbox, ok := parseBBox(c); ok {
		params.BBox = bbox
	} else if place := c.Query("place"); place != "" {
		bbox, err := geocode.PlaceViewport(place)
		if err != nil {
			log.Printf("Failed to resolve place %q: %v", place, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown place"})
			return
		}
		params.BBox = bbox
	}

	equality := map[string]string{}
	if species := c.Query("species"); species != "" {
		equality["species"] = species
	}
	if basis := c.Query("basis"); basis != "" {
		equality["basisOfRecord"] = basis
	}
	if taxonClass := c.Query("class"); taxonClass != "" {
		equality["taxonClass"] = taxonClass
	}
	if len(equality) > 0 {
		params.Equality = equality
	}

	if v := c.Query("minYear"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			params.Ranges = append(params.Ranges, grid.RangeFilter{Field: "year", Op: ">=", Value: year})
		}
	}
	if v := c.Query("maxYear"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			params.Ranges = append(params.Ranges, grid.RangeFilter{Field: "year", Op: "<=", Value: year})
		}
	}

	snapshot, err := engine.BoundedGrid(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, db.ErrSourceUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Occurrence store unavailable"})
			return
		}
		log.Printf("ERROR computing bounded grid: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute grid"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// parseBBox requires all four edges; anything less means no viewport.
func parseBBox(c *gin.Context) (*types.BBox, bool) {
	south, ok1 := queryFloatOK(c, "south")
	west, ok2 := queryFloatOK(c, "west")
	north, ok3 := queryFloatOK(c, "north")
	east, ok4 := queryFloatOK(c, "east")
	if !(ok1 && ok2 && ok3 && ok4) {
		return nil, false
	}
	return &types.BBox{South: south, West: west, North: north, East: east}, true
}

func queryFloatOK(c *gin.Context, key string) (float64, bool) {
	v := c.Query(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func queryFloat(c *gin.Context, key string) float64 {
	f, _ := queryFloatOK(c, key)
	return f
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

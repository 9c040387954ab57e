package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"

	"go-biomap/db"
	"go-biomap/grid"
	"go-biomap/handlers"
)

func SetupRouter(engine *grid.Engine, provider *db.FirestoreProvider, openaiClient *openai.Client) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Go Biomap!",
		})
	})

	// api routes
	api := r.Group("/api/biomap")
	{
		api.GET("/grid", func(c *gin.Context) {
			handlers.GetCachedGrid(c, engine)
		})
		api.GET("/grid/area", func(c *gin.Context) {
			handlers.ComputeBoundedGrid(c, engine)
		})
		api.POST("/occurrences", func(c *gin.Context) {
			handlers.SaveOccurrence(c, provider)
		})
		api.GET("/occurrences/:id", func(c *gin.Context) {
			handlers.GetOccurrence(c, provider)
		})
		api.GET("/summary", func(c *gin.Context) {
			handlers.GetHotspotSummary(c, engine, provider, openaiClient)
		})
	}

	return r
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": deps.Config.App.Name,
		})
	})

	convertHandler := NewConvertHandler(deps)

	r.GET("/", convertHandler.Index)
	r.POST("/start", convertHandler.Start)
	r.GET("/status/:job_id", convertHandler.Status)
	r.GET("/download/:job_id", convertHandler.Download)

	return r
}

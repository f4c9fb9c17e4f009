package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/NextechGS/nextech-concierge/services"
)

// NewRouter builds the admin HTTP surface: a health probe and a manual
// trigger for any scheduled job.
func NewRouter(jobs *services.Jobs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", HandleHealthz)
	r.POST("/jobs/:name", HandleRunJob(jobs))

	return r
}

// HandleHealthz reports process liveness.
func HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleRunJob runs one named job to completion and reports the outcome.
// Unknown names are a 404 so typos do not read as successful runs.
func HandleRunJob(jobs *services.Jobs) gin.HandlerFunc {
	known := make(map[string]bool)
	for _, name := range jobs.Names() {
		known[name] = true
	}

	return func(c *gin.Context) {
		name := c.Param("name")
		if !known[name] {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown job: " + name})
			return
		}

		if err := jobs.Run(c.Request.Context(), name); err != nil {
			log.Error().Err(err).Str("job", name).Msg("manual job run failed")
			c.JSON(http.StatusInternalServerError, gin.H{"job": name, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"job": name, "status": "completed"})
	}
}

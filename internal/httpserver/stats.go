package httpserver

import (
	"net/http"

	"sapphirus/internal/metrics"
	"github.com/gin-gonic/gin"
)

func statsHandler(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec == nil {
			c.JSON(http.StatusOK, gin.H{"routes": []metrics.RouteStats{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"routes": rec.Snapshot()})
	}
}

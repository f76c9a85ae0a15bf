package httpserver

import (
	"log"
	"net/http"

	"sapphirus/internal/images"
	"github.com/gin-gonic/gin"
)

// uploadImageHandler proxies a multipart product image to the image host and
// returns the hosted URL for use in product records.
func uploadImageHandler(uploader images.Uploader, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uploader == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads not configured"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}
		defer file.Close()

		url, err := uploader.Upload(c.Request.Context(), file)
		if err != nil {
			logger.Printf("uploads: error=%v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

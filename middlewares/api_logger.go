package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

// APILogMiddleware stores one APILog row per handled request. Store
// failures are logged and never reach the client.
func APILogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := models.APILog{
			Endpoint:     c.Request.URL.Path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: float64(time.Since(start).Microseconds()) / 1000,
		}
		if uid, ok := c.Get(ContextUserID); ok {
			if id, ok := uid.(uint); ok {
				entry.UserID = &id
			}
		}
		if len(c.Errors) > 0 {
			msg := c.Errors.String()
			entry.ErrorMessage = &msg
		}

		if err := db.WithContext(c.Request.Context()).Omit("User").Create(&entry).Error; err != nil {
			utils.ErrorLogger.Printf("Failed to store API log for %s %s: %v", entry.Method, entry.Endpoint, err)
		}
	}
}

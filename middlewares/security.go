package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy",
			"default-src 'self'; img-src 'self' data:; frame-ancestors 'none'; base-uri 'self'")
		c.Next()
	}
}

func CORSMiddlewares() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// UploadsGuard only lets image files out of the uploads directory.
func UploadsGuard() gin.HandlerFunc {
	allowed := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			lower := strings.ToLower(c.Request.URL.Path)
			ok := false
			for _, ext := range allowed {
				if strings.HasSuffix(lower, ext) {
					ok = true
					break
				}
			}
			if !ok {
				c.AbortWithStatus(403)
				return
			}
		}
		c.Next()
	}
}

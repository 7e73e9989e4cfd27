package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SokolovEgor954/TheLastShelter/utils"
)

// OptionalAuth populates the identity keys when a valid token is present but
// lets anonymous requests through. Used on public pages that render extra
// detail for logged-in users.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ParseToken(tokenString); err == nil && claims.UserID != 0 {
				c.Set("user_id", claims.UserID)
				c.Set("nickname", claims.Nickname)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}

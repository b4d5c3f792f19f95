package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/utils"
)

// RequireRole lets through only callers holding one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondErrorKind(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
			c.Abort()
			return
		}
		if r, _ := role.(string); !allowed[r] {
			utils.RespondErrorKind(c, http.StatusForbidden, "forbidden", "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff lets through staff and admins.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(models.StaffRoles...)
}

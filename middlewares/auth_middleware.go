package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/utils"
)

// Keys set on the gin context by the middlewares.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextToken     = "token"
	ContextTokenExp  = "token_exp"
	ContextRequestID = "request_id"
)

// AuthMiddleware requires a valid, non-revoked bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondErrorKind(c, http.StatusUnauthorized, "unauthorized", "Authorization header missing")
			c.Abort()
			return
		}

		tokenString, err := bearerToken(authHeader)
		if err != nil {
			utils.RespondErrorKind(c, http.StatusUnauthorized, "unauthorized", err.Error())
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondErrorKind(c, http.StatusUnauthorized, "unauthorized", err.Error())
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization format")
	}
	return strings.TrimSpace(parts[1]), nil
}

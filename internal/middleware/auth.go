package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/services"
)

// AdminAuthMiddleware - middleware проверки JWT админ-сессии
func AdminAuthMiddleware(adminService services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := adminService.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("adminEmail", claims.Email)
		c.Next()
	}
}

package middlewares

import (
	"log"
	"net/http"
	"strings"

	authUtils "lostfound-be/utils"

	"github.com/gin-gonic/gin"
)

// AdminAuth gates state-changing endpoints behind the admin capability. A
// missing, malformed or expired token yields 401; a valid token without the
// admin role yields 403.
func AdminAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No authorization token provided"})
			c.Abort()
			return
		}

		// Extracting token from "Bearer <token>" format
		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		claims, err := authUtils.ParseToken(jwtSecret, tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization token"})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied. Admin only."})
			c.Abort()
			return
		}

		if adminID, exists := claims["admin_id"]; exists {
			c.Set("admin_id", adminID)
		}

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminIDKey = "adminID"

// AdminAuth gates admin routes behind a bearer token. Token issuance lives
// in the identity service; this only verifies and extracts the acting admin.
func AdminAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set(adminIDKey, sub)
		}

		c.Next()
	}
}

// AdminIDFrom returns the authenticated admin id, empty for unauthenticated
// contexts.
func AdminIDFrom(c *gin.Context) string {
	if v, ok := c.Get(adminIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

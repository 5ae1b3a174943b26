package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// roleCtxKey is the Gin context key used to store the authenticated role.
const roleCtxKey = "role"

// APIKeyMiddleware authenticates requests by mapping X-API-Key → role.
// Token issuance lives outside this service; keys come from configuration.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		role, ok := keys[apiKey]
		if !ok || apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(roleCtxKey, role)
		c.Next()
	}
}

// Role returns the authenticated role from the request context.
func Role(c *gin.Context) string {
	v, _ := c.Get(roleCtxKey)
	s, _ := v.(string)
	return s
}

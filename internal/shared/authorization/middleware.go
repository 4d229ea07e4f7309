package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/shared/constants"
)

// RequireAdmin aborts with 403 unless the authenticated caller carries
// the admin role. Must run after the auth middleware has populated the
// user_role context key.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ParseUserRole(c.GetString(constants.ContextKeyUserRole)) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

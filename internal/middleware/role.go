package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/internal/domain/auth"
	"estatehub/internal/pkg/response"
)

// RequireMinRole ensures the authenticated user's role ranks at or
// above the given role. Role comparison goes through the rank order,
// never string equality, so super_admin passes every admin check.
func RequireMinRole(min auth.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		role := auth.UserRole(roleValue.(string))
		if !role.AtLeast(min) {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires admin or super_admin
func AdminOnly() gin.HandlerFunc {
	return RequireMinRole(auth.RoleAdmin)
}

// SuperAdminOnly requires super_admin
func SuperAdminOnly() gin.HandlerFunc {
	return RequireMinRole(auth.RoleSuperAdmin)
}

package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers unauthenticated auth routes
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/auth/login", handler.Login)
}

// RegisterProtectedRoutes registers routes that require a valid token
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler) {
	me := r.Group("/auth/me")
	{
		me.GET("", handler.Me)
		me.PATCH("", handler.UpdateMe)
		me.POST("/deactivate", handler.DeactivateMe)
	}
}

package lead

import (
	"estatehub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the public lead submission endpoint
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/leads", handler.Submit)
}

// RegisterAdminRoutes registers lead management endpoints. The group
// must be gated by JWT auth only: listing, stats and assignment need
// the admin role, while per-lead reads and updates also allow the
// current assignee (checked in the service).
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", middleware.AdminOnly(), handler.List)
		leads.GET("/stats", middleware.AdminOnly(), handler.Stats)
		leads.GET("/:id", handler.Get)
		leads.PATCH("/:id", handler.Update)
		leads.PATCH("/:id/status", handler.UpdateStatus)
		leads.PATCH("/:id/assign", middleware.AdminOnly(), handler.Assign)
		leads.PATCH("/:id/unassign", handler.Unassign)
		leads.POST("/bulk-assign", middleware.AdminOnly(), handler.BulkAssign)
	}
}

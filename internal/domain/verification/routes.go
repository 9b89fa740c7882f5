package verification

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the public registration endpoint
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/auth/register", handler.Register)
}

// RegisterAdminRoutes registers reviewer endpoints (admin and above)
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	v := r.Group("/verifications")
	{
		v.GET("", handler.List)
		v.GET("/stats", handler.Stats)
		v.GET("/:id", handler.Get)
		v.POST("/:id/approve", handler.Approve)
		v.POST("/:id/reject", handler.Reject)
		v.POST("/bulk-approve", handler.BulkApprove)
		v.POST("/bulk-reject", handler.BulkReject)
	}
}

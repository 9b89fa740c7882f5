package listing

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers listing reads; the optional-auth
// middleware upstream decides what each viewer can see.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/listings", handler.List)
	r.GET("/listings/:id", handler.Get)
}

// RegisterProtectedRoutes registers authenticated listing mutations
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler) {
	l := r.Group("/listings")
	{
		l.POST("", handler.Create)
		l.PATCH("/:id", handler.Update)
		l.DELETE("/:id", handler.Delete)
		l.POST("/:id/images", handler.AttachImage)
		l.DELETE("/:id/images", handler.DetachImage)
	}
}

// RegisterAdminRoutes registers moderation endpoints (admin and above)
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	l := r.Group("/listings")
	{
		l.GET("/stats", handler.Stats)
		l.POST("/:id/approve", handler.Approve)
		l.POST("/:id/reject", handler.Reject)
		l.POST("/bulk-approve", handler.BulkApprove)
		l.POST("/bulk-reject", handler.BulkReject)
	}
}

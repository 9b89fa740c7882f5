package notification

import "github.com/gin-gonic/gin"

// RegisterProtectedRoutes registers notification endpoints for the
// authenticated user
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread-count", handler.UnreadCount)
		notifications.POST("/read-all", handler.MarkAllRead)
		notifications.POST("/:id/read", handler.MarkRead)
	}
}

// RegisterWSRoutes registers the WebSocket endpoint. Auth is handled
// inside the handler via a query token, so it sits outside the JWT
// middleware.
func RegisterWSRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/ws/notifications", handler.ServeWS)
}

package notification

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatehub/internal/pkg/jwt"
	"estatehub/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwt.Service
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{service: service, hub: hub, jwt: jwtService}
}

// List handles GET /api/v1/notifications
func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	filter := ListFilter{
		UnreadOnly: c.Query("unread") == "true",
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.service.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, ErrNotificationNotFound):
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		case errors.Is(err, ErrForbidden):
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Notification belongs to another user")
		default:
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification read")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// ServeWS handles GET /ws/notifications?token=JWT
//
// Authentication goes through a query parameter because browsers cannot
// set headers on WebSocket handshakes.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed user_id=%d err=%v", claims.UserID, err)
		return
	}

	h.hub.ServeWS(conn, claims.UserID) // blocks until disconnect
}

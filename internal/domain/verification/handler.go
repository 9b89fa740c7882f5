package verification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"estatehub/internal/domain/auth"
	"estatehub/internal/pkg/response"
	"estatehub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /api/v1/auth/register (public)
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	request, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			response.CustomError(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Registration failed")
		return
	}

	response.Success(c, http.StatusCreated, request)
}

// List handles GET /api/v1/admin/verifications
func (h *Handler) List(c *gin.Context) {
	var f ListFilter

	if s := c.Query("status"); s != "" {
		status := RequestStatus(s)
		f.Status = &status
	}
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.From = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.To = &t
		}
	}
	f.Query = c.Query("q")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	requests, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests")
		return
	}

	response.Success(c, http.StatusOK, ListResponse{
		Requests: requests,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	})
}

// Get handles GET /api/v1/admin/verifications/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	request, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.CustomError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Verification request not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load request")
		return
	}

	response.Success(c, http.StatusOK, request)
}

// Approve handles POST /api/v1/admin/verifications/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req ReviewRequest
	_ = c.ShouldBindJSON(&req) // body is optional for approve

	reviewerID := c.GetInt64("user_id")
	request, err := h.service.Approve(c.Request.Context(), id, reviewerID, req.Notes)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, request)
}

// Reject handles POST /api/v1/admin/verifications/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	reviewerID := c.GetInt64("user_id")
	request, err := h.service.Reject(c.Request.Context(), id, reviewerID, req.Reason, req.Notes)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, request)
}

// BulkApprove handles POST /api/v1/admin/verifications/bulk-approve
func (h *Handler) BulkApprove(c *gin.Context) {
	var req BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	reviewerID := c.GetInt64("user_id")
	result := h.service.BulkApprove(c.Request.Context(), req.RequestIDs, reviewerID, req.Notes)
	response.Success(c, http.StatusOK, result)
}

// BulkReject handles POST /api/v1/admin/verifications/bulk-reject
func (h *Handler) BulkReject(c *gin.Context) {
	var req BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	reviewerID := c.GetInt64("user_id")
	result := h.service.BulkReject(c.Request.Context(), req.RequestIDs, reviewerID, req.Reason, req.Notes)
	response.Success(c, http.StatusOK, result)
}

// Stats handles GET /api/v1/admin/verifications/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		response.CustomError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Verification request not found")
	case errors.Is(err, ErrAlreadyReviewed):
		response.CustomError(c, http.StatusConflict, "ALREADY_REVIEWED", "Request has already been reviewed")
	case errors.Is(err, ErrReasonRequired):
		response.CustomError(c, http.StatusBadRequest, "REASON_REQUIRED", "Rejection reason is required")
	case errors.Is(err, ErrReasonTooLong):
		response.CustomError(c, http.StatusBadRequest, "REASON_TOO_LONG", "Rejection reason is too long")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Review failed")
	}
}

package listing

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"estatehub/internal/domain/auth"
	"estatehub/internal/domain/upload"
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

func viewer(c *gin.Context) (int64, auth.UserRole) {
	return c.GetInt64("user_id"), auth.UserRole(c.GetString("role"))
}

// Create handles POST /api/v1/listings
func (h *Handler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	actorID, actorRole := viewer(c)
	l, err := h.service.Create(c.Request.Context(), actorID, actorRole, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidListing) {
			response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_LISTING", err)
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create listing")
		return
	}

	response.Success(c, http.StatusCreated, l)
}

// List handles GET /api/v1/listings (anonymous viewers allowed)
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	f.ViewerID, f.ViewerRole = viewer(c)

	if s := c.Query("status"); s != "" {
		status := ListingStatus(s)
		f.Status = &status
	}
	if s := c.Query("approval_status"); s != "" {
		approval := ApprovalStatus(s)
		f.Approval = &approval
	}
	f.City = c.Query("city")
	f.MinPrice, _ = strconv.ParseFloat(c.DefaultQuery("min_price", "0"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.DefaultQuery("max_price", "0"), 64)
	f.Bedrooms, _ = strconv.Atoi(c.DefaultQuery("bedrooms", "0"))
	f.Query = c.Query("q")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	listings, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list listings")
		return
	}

	response.Success(c, http.StatusOK, ListResponse{
		Listings: listings,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	})
}

// Get handles GET /api/v1/listings/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	viewerID, viewerRole := viewer(c)
	l, err := h.service.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.CustomError(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load listing")
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Update handles PATCH /api/v1/listings/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	actorID, actorRole := viewer(c)
	l, err := h.service.Update(c.Request.Context(), id, actorID, actorRole, &req)
	if err != nil {
		h.mutationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Delete handles DELETE /api/v1/listings/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	actorID, actorRole := viewer(c)
	if err := h.service.Delete(c.Request.Context(), id, actorID, actorRole); err != nil {
		h.mutationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Listing deleted"})
}

// AttachImage handles POST /api/v1/listings/:id/images (multipart)
func (h *Handler) AttachImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "MISSING_FILE", "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read image file")
		return
	}

	actorID, actorRole := viewer(c)
	l, err := h.service.AttachImage(c.Request.Context(), id, actorID, actorRole, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			response.CustomError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the size limit")
		case errors.Is(err, upload.ErrInvalidMimeType):
			response.CustomError(c, http.StatusUnsupportedMediaType, "INVALID_FILE_TYPE", "Only image files are allowed")
		case errors.Is(err, upload.ErrEmptyFile):
			response.CustomError(c, http.StatusBadRequest, "EMPTY_FILE", "Image file is empty")
		case errors.Is(err, ErrTooManyImages):
			response.CustomError(c, http.StatusConflict, "IMAGE_LIMIT", "Image limit reached for this listing")
		default:
			h.mutationError(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, l)
}

// DetachImage handles DELETE /api/v1/listings/:id/images
func (h *Handler) DetachImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var req DetachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	actorID, actorRole := viewer(c)
	l, err := h.service.DetachImage(c.Request.Context(), id, actorID, actorRole, req.URL)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.CustomError(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not attached to this listing")
			return
		}
		h.mutationError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Approve handles POST /api/v1/admin/listings/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	adminID := c.GetInt64("user_id")
	l, err := h.service.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Reject handles POST /api/v1/admin/listings/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	adminID := c.GetInt64("user_id")
	l, err := h.service.Reject(c.Request.Context(), id, adminID, req.Reason)
	if err != nil {
		h.reviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// BulkApprove handles POST /api/v1/admin/listings/bulk-approve
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

	adminID := c.GetInt64("user_id")
	result := h.service.BulkApprove(c.Request.Context(), req.ListingIDs, adminID)
	response.Success(c, http.StatusOK, result)
}

// BulkReject handles POST /api/v1/admin/listings/bulk-reject
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

	adminID := c.GetInt64("user_id")
	result := h.service.BulkReject(c.Request.Context(), req.ListingIDs, adminID, req.Reason)
	response.Success(c, http.StatusOK, result)
}

// Stats handles GET /api/v1/admin/listings/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) mutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.CustomError(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrForbidden):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions for this listing")
	case errors.Is(err, ErrInvalidListing):
		response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_LISTING", err)
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Listing operation failed")
	}
}

func (h *Handler) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.CustomError(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrAlreadyReviewed):
		response.CustomError(c, http.StatusConflict, "ALREADY_REVIEWED", "Listing has already been reviewed")
	case errors.Is(err, ErrReasonRequired):
		response.CustomError(c, http.StatusBadRequest, "REASON_REQUIRED", "Rejection reason is required")
	case errors.Is(err, ErrReasonTooLong):
		response.CustomError(c, http.StatusBadRequest, "REASON_TOO_LONG", "Rejection reason is too long")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Review failed")
	}
}

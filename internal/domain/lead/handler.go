package lead

import (
	"errors"
	"net/http"
	"strconv"

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

func actor(c *gin.Context) (int64, auth.UserRole) {
	return c.GetInt64("user_id"), auth.UserRole(c.GetString("role"))
}

// Submit handles POST /api/v1/leads (public)
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	l, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidPhone) {
			response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_PHONE", "Phone number must contain 10 to 15 digits")
			return
		}
		if errors.Is(err, ErrInvalidPriority) {
			response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_PRIORITY", "Unknown priority value")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit lead")
		return
	}

	response.Success(c, http.StatusCreated, l)
}

// List handles GET /api/v1/admin/leads
func (h *Handler) List(c *gin.Context) {
	var f ListFilter

	if s := c.Query("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}
	if s := c.Query("priority"); s != "" {
		priority := Priority(s)
		f.Priority = &priority
	}
	if s := c.Query("source"); s != "" {
		source := Source(s)
		f.Source = &source
	}
	if s := c.Query("assigned_to"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			f.AssignedTo = &id
		}
	}
	f.Unassigned = c.Query("unassigned") == "true"
	f.Query = c.Query("q")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	leads, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, ListResponse{
		Leads: leads,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	})
}

// Get handles GET /api/v1/admin/leads/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.CustomError(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load lead")
		return
	}

	actorID, actorRole := actor(c)
	if !actorRole.AtLeast(auth.RoleAdmin) && !l.IsAssignedTo(actorID) {
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Not the assignee of this lead")
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Update handles PATCH /api/v1/admin/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	actorID, actorRole := actor(c)
	l, err := h.service.Update(c.Request.Context(), id, actorID, actorRole, &req)
	if err != nil {
		h.leadError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// UpdateStatus handles PATCH /api/v1/admin/leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	actorID, actorRole := actor(c)
	l, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, actorID, actorRole)
	if err != nil {
		h.leadError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Assign handles PATCH /api/v1/admin/leads/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	assignerID := c.GetInt64("user_id")
	l, err := h.service.Assign(c.Request.Context(), id, req.AssigneeID, assignerID)
	if err != nil {
		if errors.Is(err, ErrAssigneeNotFound) {
			response.CustomError(c, http.StatusUnprocessableEntity, "ASSIGNEE_NOT_FOUND", "Assignee does not exist")
			return
		}
		h.leadError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// Unassign handles PATCH /api/v1/admin/leads/:id/unassign
func (h *Handler) Unassign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	actorID, actorRole := actor(c)
	l, err := h.service.Unassign(c.Request.Context(), id, actorID, actorRole)
	if err != nil {
		if errors.Is(err, ErrNotAssigned) {
			response.CustomError(c, http.StatusConflict, "NOT_ASSIGNED", "Lead is not assigned")
			return
		}
		h.leadError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// BulkAssign handles POST /api/v1/admin/leads/bulk-assign
func (h *Handler) BulkAssign(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	assignerID := c.GetInt64("user_id")
	result := h.service.BulkAssign(c.Request.Context(), req.LeadIDs, req.AssigneeID, assignerID)
	response.Success(c, http.StatusOK, result)
}

// Stats handles GET /api/v1/admin/leads/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) leadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.CustomError(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrForbidden):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Not the assignee of this lead")
	case errors.Is(err, ErrInvalidStatus):
		response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_STATUS", "Unknown lead status")
	case errors.Is(err, ErrInvalidPriority):
		response.CustomError(c, http.StatusUnprocessableEntity, "INVALID_PRIORITY", "Unknown priority value")
	default:
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Lead operation failed")
	}
}

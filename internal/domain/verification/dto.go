package verification

// RegisterRequest is the public registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

// ReviewRequest carries approve/reject input
type ReviewRequest struct {
	Reason string `json:"reason"` // required for reject
	Notes  string `json:"notes"`
}

// BulkReviewRequest carries bulk approve/reject input
type BulkReviewRequest struct {
	RequestIDs []int64 `json:"request_ids" validate:"required,min=1"`
	Reason     string  `json:"reason"`
	Notes      string  `json:"notes"`
}

// BulkError records a single failed item of a bulk call
type BulkError struct {
	RequestID int64  `json:"request_id"`
	Error     string `json:"error"`
}

// BulkResult aggregates per-item outcomes; the batch itself never fails
// on an item error.
type BulkResult struct {
	Processed []Request   `json:"processed"`
	Errors    []BulkError `json:"errors"`
}

// ListResponse is the paginated request listing
type ListResponse struct {
	Requests []Request `json:"requests"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// StatsResponse aggregates verification workflow statistics
type StatsResponse struct {
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	Approved             int     `json:"approved"`
	Rejected             int     `json:"rejected"`
	RequestedToday       int     `json:"requested_today"`
	ReviewedToday        int     `json:"reviewed_today"`
	AvgProcessingTimeHrs float64 `json:"avg_processing_time_hours"`
}

package lead

// SubmitLeadRequest is the public lead submission payload
type SubmitLeadRequest struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone" validate:"required"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Message           string   `json:"message"`
	Source            Source   `json:"source"`
	Priority          Priority `json:"priority"`
	Notes             string   `json:"notes"`
	Tags              []string `json:"tags"`
	PropertyInterests []int64  `json:"property_interests"`
	BudgetMin         *float64 `json:"budget_min"`
	BudgetMax         *float64 `json:"budget_max"`
	PreferredCity     string   `json:"preferred_city"`
	PreferredState    string   `json:"preferred_state"`
}

// UpdateLeadRequest carries partial lead edits; nil means unchanged
type UpdateLeadRequest struct {
	Name                  *string   `json:"name"`
	Email                 *string   `json:"email"`
	Message               *string   `json:"message"`
	Notes                 *string   `json:"notes"`
	Priority              *Priority `json:"priority"`
	Tags                  []string  `json:"tags"`
	PropertyInterests     []int64   `json:"property_interests"`
	BudgetMin             *float64  `json:"budget_min"`
	BudgetMax             *float64  `json:"budget_max"`
	PreferredCity         *string   `json:"preferred_city"`
	PreferredState        *string   `json:"preferred_state"`
	ConversionProbability *int      `json:"conversion_probability"`
}

// UpdateStatusRequest carries a status transition
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// AssignRequest names the assignee
type AssignRequest struct {
	AssigneeID int64 `json:"assignee_id" validate:"required"`
}

// BulkAssignRequest carries bulk assignment input
type BulkAssignRequest struct {
	LeadIDs    []int64 `json:"lead_ids" validate:"required,min=1"`
	AssigneeID int64   `json:"assignee_id" validate:"required"`
}

type BulkError struct {
	LeadID int64  `json:"lead_id"`
	Error  string `json:"error"`
}

type BulkResult struct {
	Processed []Lead      `json:"processed"`
	Errors    []BulkError `json:"errors"`
}

// ListResponse is the paginated lead listing
type ListResponse struct {
	Leads []Lead `json:"leads"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// StatsResponse aggregates lead statistics
type StatsResponse struct {
	Total          int              `json:"total"`
	ByStatus       map[Status]int   `json:"by_status"`
	BySource       map[Source]int   `json:"by_source"`
	ByPriority     map[Priority]int `json:"by_priority"`
	Unassigned     int              `json:"unassigned"`
	AvgScore       float64          `json:"avg_score"`
	ConversionRate int              `json:"conversion_rate"`
}

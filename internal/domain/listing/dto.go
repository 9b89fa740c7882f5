package listing

// CreateListingRequest is the listing creation payload
type CreateListingRequest struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Price       float64       `json:"price" validate:"gte=0"`
	Address     string        `json:"address"`
	City        string        `json:"city"`
	State       string        `json:"state"`
	Bedrooms    int           `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms   int           `json:"bathrooms" validate:"gte=0,lte=50"`
	Area        float64       `json:"area" validate:"gte=0"`
	Status      ListingStatus `json:"status"`
}

// UpdateListingRequest carries partial listing edits; nil means unchanged
type UpdateListingRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Address     *string        `json:"address"`
	City        *string        `json:"city"`
	State       *string        `json:"state"`
	Bedrooms    *int           `json:"bedrooms"`
	Bathrooms   *int           `json:"bathrooms"`
	Area        *float64       `json:"area"`
	Status      *ListingStatus `json:"status"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// BulkReviewRequest carries bulk approve/reject input
type BulkReviewRequest struct {
	ListingIDs []int64 `json:"listing_ids" validate:"required,min=1"`
	Reason     string  `json:"reason"`
}

// DetachImageRequest names the image URL to remove
type DetachImageRequest struct {
	URL string `json:"url" validate:"required"`
}

type BulkError struct {
	ListingID int64  `json:"listing_id"`
	Error     string `json:"error"`
}

type BulkResult struct {
	Processed []Listing   `json:"processed"`
	Errors    []BulkError `json:"errors"`
}

// ListResponse is the paginated listing page
type ListResponse struct {
	Listings []Listing `json:"listings"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// StatsResponse aggregates listing counts
type StatsResponse struct {
	Total        int                    `json:"total"`
	ByApproval   map[ApprovalStatus]int `json:"by_approval"`
	ByStatus     map[ListingStatus]int  `json:"by_status"`
	CreatedToday int                    `json:"created_today"`
}

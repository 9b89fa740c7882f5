package listing

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ListingStatus is the market state, independent of approval.
type ListingStatus string

const (
	StatusAvailable   ListingStatus = "available"
	StatusSold        ListingStatus = "sold"
	StatusRented      ListingStatus = "rented"
	StatusPendingSale ListingStatus = "pending_sale"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusRented, StatusPendingSale:
		return true
	}
	return false
}

// ApprovalStatus is the moderation state.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Listing struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`

	Address string `json:"address"`
	City    string `json:"city" gorm:"index"`
	State   string `json:"state"`

	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Area      float64 `json:"area"`

	// Ordered list of image URLs, stored as a JSON array
	Images datatypes.JSON `json:"images,omitempty"`

	Status         ListingStatus  `json:"status" gorm:"default:'available';index"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"default:'pending';index"`

	AgentID         int64      `json:"agent_id" gorm:"index;not null"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// ImageURLs decodes the stored JSON array. A broken column yields an
// empty slice rather than an error; images are never load-bearing.
func (l *Listing) ImageURLs() []string {
	if len(l.Images) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(l.Images, &urls); err != nil {
		return nil
	}
	return urls
}

func (l *Listing) SetImageURLs(urls []string) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	l.Images = datatypes.JSON(data)
	return nil
}

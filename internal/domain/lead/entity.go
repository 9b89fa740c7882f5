package lead

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Status represents lead status
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// Source represents where the lead came from
type Source string

const (
	SourceLandingPage Source = "landing_page"
	SourceContactForm Source = "contact_form"
	SourceReferral    Source = "referral"
	SourceOther       Source = "other"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceLandingPage, SourceContactForm, SourceReferral, SourceOther:
		return true
	}
	return false
}

// Priority represents lead priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Lead is an inbound sales lead. The score is computed once at creation
// and never recomputed on later edits.
type Lead struct {
	ID      int64  `json:"id" gorm:"primaryKey"`
	Name    string `json:"name"`
	Phone   string `json:"phone" gorm:"not null;index"` // normalized, digits only
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`

	Source   Source   `json:"source" gorm:"default:'other';index"`
	Status   Status   `json:"status" gorm:"default:'new';index"`
	Priority Priority `json:"priority" gorm:"default:'medium';index"`

	AssignedTo *int64     `json:"assigned_to,omitempty" gorm:"index"`
	AssignedBy *int64     `json:"assigned_by,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	Notes           string     `json:"notes,omitempty"`

	// JSON arrays: tag strings and listing IDs of interest
	Tags              datatypes.JSON `json:"tags,omitempty"`
	PropertyInterests datatypes.JSON `json:"property_interests,omitempty"`

	BudgetMin *float64 `json:"budget_min,omitempty"`
	BudgetMax *float64 `json:"budget_max,omitempty"`

	PreferredCity  string `json:"preferred_city,omitempty"`
	PreferredState string `json:"preferred_state,omitempty"`

	Score                 int `json:"score"`
	ConversionProbability int `json:"conversion_probability"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) IsAssignedTo(userID int64) bool {
	return l.AssignedTo != nil && *l.AssignedTo == userID
}

func (l *Lead) TagList() []string {
	if len(l.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(l.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

func (l *Lead) InterestList() []int64 {
	if len(l.PropertyInterests) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(l.PropertyInterests, &ids); err != nil {
		return nil
	}
	return ids
}

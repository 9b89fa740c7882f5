package verification

import (
	"time"

	"estatehub/internal/domain/auth"
)

// RequestStatus mirrors auth.VerificationStatus values; the request record
// is the source of truth, the user row is synced after each transition.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is a verification request created together with the user
// account. It snapshots the reviewable profile fields at submission time
// and transitions exactly once from pending to a terminal state.
type Request struct {
	ID     int64 `json:"id" gorm:"primaryKey"`
	UserID int64 `json:"user_id" gorm:"uniqueIndex;not null"`

	// Snapshot of the profile at submission time
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position,omitempty"`

	Status          RequestStatus `json:"status" gorm:"default:'pending';index"`
	ReviewedBy      *int64        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewed_at,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Request) TableName() string {
	return "verification_requests"
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) userStatus() auth.VerificationStatus {
	switch r.Status {
	case StatusApproved:
		return auth.StatusApproved
	case StatusRejected:
		return auth.StatusRejected
	default:
		return auth.StatusPending
	}
}

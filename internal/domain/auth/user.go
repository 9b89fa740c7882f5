package auth

import "time"

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// Rank returns the privilege level of a role. Unknown roles rank below
// everything so a corrupted value never grants access.
func (r UserRole) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r holds the privilege of min or higher.
func (r UserRole) AtLeast(min UserRole) bool {
	return r.Rank() >= min.Rank()
}

func (r UserRole) IsValid() bool {
	return r.Rank() > 0
}

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

type User struct {
	ID                 int64              `json:"id" gorm:"primaryKey"`
	Email              string             `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash       string             `json:"-" gorm:"not null"`
	Role               UserRole           `json:"role" gorm:"default:'user';index"`
	Name               string             `json:"name"`
	Phone              string             `json:"phone,omitempty"`
	Position           string             `json:"position,omitempty"`
	AvatarURL          string             `json:"avatar_url,omitempty"`
	IsActive           bool               `json:"is_active" gorm:"default:true"`
	IsVerified         bool               `json:"is_verified" gorm:"default:false"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"default:'pending';index"`
	VerifiedBy         *int64             `json:"verified_by,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanAuthenticate applies the verification gate: super admins always pass,
// everyone else must be approved and active.
func (u *User) CanAuthenticate() bool {
	if !u.IsActive {
		return false
	}
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.VerificationStatus == StatusApproved
}

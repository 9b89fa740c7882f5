package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_Rank(t *testing.T) {
	assert.Equal(t, 1, RoleUser.Rank())
	assert.Equal(t, 2, RoleAdmin.Rank())
	assert.Equal(t, 3, RoleSuperAdmin.Rank())

	// Unknown roles rank below everything
	assert.Equal(t, 0, UserRole("moderator").Rank())
	assert.Equal(t, 0, UserRole("").Rank())
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleSuperAdmin.AtLeast(RoleSuperAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleUser))

	assert.False(t, RoleAdmin.AtLeast(RoleSuperAdmin))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, UserRole("moderator").AtLeast(RoleUser))
}

func TestUser_CanAuthenticate(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{
			name: "approved active user",
			user: User{Role: RoleUser, IsActive: true, VerificationStatus: StatusApproved},
			want: true,
		},
		{
			name: "pending user",
			user: User{Role: RoleUser, IsActive: true, VerificationStatus: StatusPending},
			want: false,
		},
		{
			name: "rejected user",
			user: User{Role: RoleUser, IsActive: true, VerificationStatus: StatusRejected},
			want: false,
		},
		{
			name: "super admin bypasses verification",
			user: User{Role: RoleSuperAdmin, IsActive: true, VerificationStatus: StatusPending},
			want: true,
		},
		{
			name: "inactive super admin",
			user: User{Role: RoleSuperAdmin, IsActive: false, VerificationStatus: StatusApproved},
			want: false,
		},
		{
			name: "inactive approved user",
			user: User{Role: RoleUser, IsActive: false, VerificationStatus: StatusApproved},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CanAuthenticate())
		})
	}
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	jwtsvc "estatehub/internal/pkg/jwt"
)

// Mock user repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) DB() *gorm.DB {
	return nil
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testJWT() *jwtsvc.Service {
	return jwtsvc.New("test-secret-123", time.Hour)
}

func verifiedUser(t *testing.T, role UserRole) *User {
	t.Helper()

	hash, err := HashPassword("password123")
	require.NoError(t, err)
	return &User{
		ID:                 42,
		Email:              "agent@example.com",
		PasswordHash:       hash,
		Role:               role,
		IsActive:           true,
		VerificationStatus: StatusApproved,
	}
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	user := verifiedUser(t, RoleUser)
	repo.On("GetByEmail", ctx, "agent@example.com").Return(user, nil)

	jwt := testJWT()
	svc := NewService(repo, jwt)

	token, got, err := svc.Login(ctx, "agent@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("GetByEmail", ctx, "agent@example.com").Return(verifiedUser(t, RoleUser), nil)

	svc := NewService(repo, testJWT())

	_, _, err := svc.Login(ctx, "agent@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(mockUserRepo)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(repo, testJWT())

	// Same error as a wrong password so the response does not reveal
	// which emails exist
	_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_VerificationGate(t *testing.T) {
	ctx := context.Background()

	pending := verifiedUser(t, RoleUser)
	pending.VerificationStatus = StatusPending
	pending.IsVerified = false

	repo := new(mockUserRepo)
	repo.On("GetByEmail", ctx, "agent@example.com").Return(pending, nil)

	svc := NewService(repo, testJWT())

	_, _, err := svc.Login(ctx, "agent@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestLogin_SuperAdminBypassesGate(t *testing.T) {
	ctx := context.Background()

	super := verifiedUser(t, RoleSuperAdmin)
	super.VerificationStatus = StatusPending

	repo := new(mockUserRepo)
	repo.On("GetByEmail", ctx, "agent@example.com").Return(super, nil)

	svc := NewService(repo, testJWT())

	_, _, err := svc.Login(ctx, "agent@example.com", "password123")
	assert.NoError(t, err)
}

func TestLogin_InactiveAccount(t *testing.T) {
	ctx := context.Background()

	inactive := verifiedUser(t, RoleUser)
	inactive.IsActive = false

	repo := new(mockUserRepo)
	repo.On("GetByEmail", ctx, "agent@example.com").Return(inactive, nil)

	svc := NewService(repo, testJWT())

	_, _, err := svc.Login(ctx, "agent@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

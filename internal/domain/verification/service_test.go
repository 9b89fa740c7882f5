package verification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estatehub/internal/database"
	"estatehub/internal/domain/auth"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open sqlite db")
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Request{}))
	return db
}

func newTestService(t *testing.T) (*Service, auth.UserRepository, RequestRepository) {
	t.Helper()

	db := testDB(t)
	users := auth.NewUserRepository(db)
	requests := NewRequestRepository(db)
	svc := NewService(users, requests, DefaultConfig(), nil)
	return svc, users, requests
}

func register(t *testing.T, svc *Service, email string) *Request {
	t.Helper()

	req, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test Agent",
		Position: "Listing Agent",
	})
	require.NoError(t, err)
	return req
}

func TestRegister_CreatesUserAndRequest(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestService(t)

	req := register(t, svc, "Agent@Example.com")

	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "agent@example.com", req.Email)

	user, err := users.GetByID(ctx, req.UserID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusPending, user.VerificationStatus)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsActive)
	assert.False(t, user.CanAuthenticate())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "agent@example.com")

	// Same email with different casing must be rejected too
	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "AGENT@example.com",
		Password: "password123",
		Name:     "Someone Else",
	})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestApprove_SyncsUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestService(t)

	req := register(t, svc, "agent@example.com")

	approved, err := svc.Approve(ctx, req.ID, 99, "looks good")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, int64(99), *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	user, err := users.GetByID(ctx, req.UserID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusApproved, user.VerificationStatus)
	assert.True(t, user.IsVerified)
	assert.True(t, user.CanAuthenticate())
}

func TestApprove_SecondReviewerLoses(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	req := register(t, svc, "agent@example.com")

	_, err := svc.Approve(ctx, req.ID, 1, "")
	require.NoError(t, err)

	// Request is terminal now; neither a second approve nor a reject
	// may touch it.
	_, err = svc.Approve(ctx, req.ID, 2, "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = svc.Reject(ctx, req.ID, 2, "changed my mind", "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestApprove_MissingRequest(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Approve(context.Background(), 12345, 1, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestReject_SyncsUser(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestService(t)

	req := register(t, svc, "agent@example.com")

	rejected, err := svc.Reject(ctx, req.ID, 7, "incomplete profile", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "incomplete profile", rejected.RejectionReason)

	user, err := users.GetByID(ctx, req.UserID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusRejected, user.VerificationStatus)
	assert.False(t, user.IsVerified)
	assert.Equal(t, "incomplete profile", user.RejectionReason)
	assert.False(t, user.CanAuthenticate())
}

func TestReject_ReasonValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	req := register(t, svc, "agent@example.com")

	_, err := svc.Reject(ctx, req.ID, 1, "   ", "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.Reject(ctx, req.ID, 1, strings.Repeat("x", 501), "")
	assert.ErrorIs(t, err, ErrReasonTooLong)

	// The failed attempts must not have consumed the request
	_, err = svc.Reject(ctx, req.ID, 1, "valid reason", "")
	assert.NoError(t, err)
}

func TestBulkApprove_CollectsErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := register(t, svc, "one@example.com")
	second := register(t, svc, "two@example.com")

	result := svc.BulkApprove(ctx, []int64{first.ID, 9999, second.ID}, 1, "")

	require.Len(t, result.Processed, 2)
	assert.Equal(t, first.ID, result.Processed[0].ID)
	assert.Equal(t, second.ID, result.Processed[1].ID)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(9999), result.Errors[0].RequestID)
	assert.Equal(t, ErrRequestNotFound.Error(), result.Errors[0].Error)
}

func TestList_FiltersByStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := register(t, svc, "one@example.com")
	register(t, svc, "two@example.com")

	_, err := svc.Approve(ctx, first.ID, 1, "")
	require.NoError(t, err)

	status := StatusPending
	requests, total, err := svc.List(ctx, ListFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, "two@example.com", requests[0].Email)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := register(t, svc, "one@example.com")
	second := register(t, svc, "two@example.com")
	register(t, svc, "three@example.com")

	_, err := svc.Approve(ctx, first.ID, 1, "")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, second.ID, 1, "reason", "")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 3, stats.RequestedToday)
	assert.Equal(t, 2, stats.ReviewedToday)
}

package listing

import (
	"context"
	"fmt"
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
	require.NoError(t, db.AutoMigrate(&Listing{}))
	return db
}

// fakeStorage keeps blobs in memory and records deletions.
type fakeStorage struct {
	nextID  int
	uploads map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, data []byte, name, folder string) (string, error) {
	f.nextID++
	url := fmt.Sprintf("/static/uploads/%s/%d_%s", folder, f.nextID, name)
	f.uploads[url] = data
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	delete(f.uploads, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, url string) (bool, error) {
	_, ok := f.uploads[url]
	return ok, nil
}

func newTestService(t *testing.T) (*Service, *fakeStorage, ListingRepository) {
	t.Helper()

	db := testDB(t)
	repo := NewListingRepository(db)
	storage := newFakeStorage()
	cfg := DefaultConfig()
	cfg.MaxImages = 3
	svc := NewService(repo, storage, cfg, nil)
	return svc, storage, repo
}

func createListing(t *testing.T, svc *Service, agentID int64, role auth.UserRole, title string) *Listing {
	t.Helper()

	l, err := svc.Create(context.Background(), agentID, role, &CreateListingRequest{
		Title: title,
		Price: 300000,
		City:  "Austin",
	})
	require.NoError(t, err)
	return l
}

func TestCreate_AgentStartsPending(t *testing.T) {
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Agent home")
	assert.Equal(t, ApprovalPending, l.ApprovalStatus)
	assert.Nil(t, l.ApprovedBy)
}

func TestCreate_SuperAdminAutoApproved(t *testing.T) {
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 1, auth.RoleSuperAdmin, "Admin home")
	assert.Equal(t, ApprovalApproved, l.ApprovalStatus)
	require.NotNil(t, l.ApprovedBy)
	assert.Equal(t, int64(1), *l.ApprovedBy)
	assert.NotNil(t, l.ApprovedAt)
}

func TestCreate_RejectsOutOfRangeValues(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 10, auth.RoleUser, &CreateListingRequest{
		Title:    "Bad",
		Price:    100,
		Bedrooms: 51,
	})
	assert.ErrorIs(t, err, ErrInvalidListing)
}

func TestGet_PendingHiddenFromStrangers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Pending home")

	// Owner sees it
	_, err := svc.Get(ctx, l.ID, 10, auth.RoleUser)
	assert.NoError(t, err)

	// Reviewers see it
	_, err = svc.Get(ctx, l.ID, 2, auth.RoleAdmin)
	assert.NoError(t, err)

	// Other users and anonymous viewers get a not-found, not a 403,
	// so the listing's existence stays hidden
	_, err = svc.Get(ctx, l.ID, 11, auth.RoleUser)
	assert.ErrorIs(t, err, ErrListingNotFound)
	_, err = svc.Get(ctx, l.ID, 0, "")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestList_Visibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	approved := createListing(t, svc, 10, auth.RoleUser, "Approved home")
	_, err := svc.Approve(ctx, approved.ID, 1)
	require.NoError(t, err)

	ownPending := createListing(t, svc, 10, auth.RoleUser, "Own pending")
	otherPending := createListing(t, svc, 20, auth.RoleUser, "Other pending")

	rejected := createListing(t, svc, 10, auth.RoleUser, "Rejected home")
	_, err = svc.Reject(ctx, rejected.ID, 1, "bad photos")
	require.NoError(t, err)

	ids := func(listings []Listing) []int64 {
		out := make([]int64, 0, len(listings))
		for _, l := range listings {
			out = append(out, l.ID)
		}
		return out
	}

	// Anonymous: approved only
	listings, total, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.ElementsMatch(t, []int64{approved.ID}, ids(listings))

	// Agent 10: approved plus their own pending and rejected
	listings, total, err = svc.List(ctx, ListFilter{ViewerID: 10, ViewerRole: auth.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.ElementsMatch(t, []int64{approved.ID, ownPending.ID, rejected.ID}, ids(listings))

	// Super admin default: the moderation view, pending plus approved
	listings, total, err = svc.List(ctx, ListFilter{ViewerID: 1, ViewerRole: auth.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.ElementsMatch(t, []int64{approved.ID, ownPending.ID, otherPending.ID}, ids(listings))

	// Super admin with an explicit bucket
	bucket := ApprovalRejected
	listings, total, err = svc.List(ctx, ListFilter{ViewerID: 1, ViewerRole: auth.RoleSuperAdmin, Approval: &bucket})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.ElementsMatch(t, []int64{rejected.ID}, ids(listings))
}

func TestUpdate_AdminCannotEdit(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")
	title := "New title"

	// Admins may moderate and delete but not edit content
	_, err := svc.Update(ctx, l.ID, 2, auth.RoleAdmin, &UpdateListingRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	// Owner and super admin may
	updated, err := svc.Update(ctx, l.ID, 10, auth.RoleUser, &UpdateListingRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)

	other := "Another title"
	_, err = svc.Update(ctx, l.ID, 1, auth.RoleSuperAdmin, &UpdateListingRequest{Title: &other})
	assert.NoError(t, err)
}

func TestDelete_AdminAllowed(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")

	err := svc.Delete(ctx, l.ID, 11, auth.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, l.ID, 2, auth.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Get(ctx, l.ID, 10, auth.RoleUser)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestApprove_SecondReviewerLoses(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")

	_, err := svc.Approve(ctx, l.ID, 1)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, l.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = svc.Reject(ctx, l.ID, 2, "too late")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = svc.Approve(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestApprove_ClearsStaleRejectionReason(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService(t)

	// A listing resubmitted after rejection still carries the old reason
	l := &Listing{
		Title:           "Resubmitted home",
		Price:           100000,
		AgentID:         10,
		ApprovalStatus:  ApprovalPending,
		RejectionReason: "blurry photos",
	}
	require.NoError(t, repo.Create(ctx, l))

	approved, err := svc.Approve(ctx, l.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, ApprovalApproved, approved.ApprovalStatus)
	assert.Empty(t, approved.RejectionReason)
}

func TestReject_ReasonRequired(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")

	_, err := svc.Reject(ctx, l.ID, 1, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)

	// The failed reject must not have consumed the pending state
	_, err = svc.Approve(ctx, l.ID, 1)
	assert.NoError(t, err)
}

func TestBulkApprove_CollectsErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first := createListing(t, svc, 10, auth.RoleUser, "One")
	second := createListing(t, svc, 10, auth.RoleUser, "Two")

	result := svc.BulkApprove(ctx, []int64{first.ID, 9999, second.ID}, 1)

	require.Len(t, result.Processed, 2)
	assert.Equal(t, first.ID, result.Processed[0].ID)
	assert.Equal(t, second.ID, result.Processed[1].ID)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, int64(9999), result.Errors[0].ListingID)
	assert.Equal(t, ErrListingNotFound.Error(), result.Errors[0].Error)
}

func TestAttachImage_AppendsAndEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")

	for i := 0; i < 3; i++ {
		_, err := svc.AttachImage(ctx, l.ID, 10, auth.RoleUser, []byte("img"), fmt.Sprintf("p%d.jpg", i))
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, l.ID, 10, auth.RoleUser)
	require.NoError(t, err)
	assert.Len(t, got.ImageURLs(), 3)
	assert.Len(t, storage.uploads, 3)

	_, err = svc.AttachImage(ctx, l.ID, 10, auth.RoleUser, []byte("img"), "extra.jpg")
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestDetachImage(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestService(t)

	l := createListing(t, svc, 10, auth.RoleUser, "Home")

	attached, err := svc.AttachImage(ctx, l.ID, 10, auth.RoleUser, []byte("img"), "p.jpg")
	require.NoError(t, err)
	url := attached.ImageURLs()[0]

	_, err = svc.DetachImage(ctx, l.ID, 10, auth.RoleUser, "/static/uploads/listings/none.jpg")
	assert.ErrorIs(t, err, ErrImageNotFound)

	detached, err := svc.DetachImage(ctx, l.ID, 10, auth.RoleUser, url)
	require.NoError(t, err)
	assert.Empty(t, detached.ImageURLs())
	assert.Contains(t, storage.deleted, url)
}

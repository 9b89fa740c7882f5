package listing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"estatehub/internal/domain/auth"
	"estatehub/internal/domain/upload"

	"gorm.io/gorm"
)

const (
	maxBedrooms  = 50
	maxBathrooms = 50
)

type Config struct {
	PageSize        int
	MaxPageSize     int
	MaxReasonLength int
	MaxImages       int
}

func DefaultConfig() Config {
	return Config{
		PageSize:        20,
		MaxPageSize:     100,
		MaxReasonLength: 500,
		MaxImages:       20,
	}
}

type Notifier interface {
	NotifyListingApproved(ctx context.Context, agentID, listingID int64) error
	NotifyListingRejected(ctx context.Context, agentID, listingID int64, reason string) error
}

type Service struct {
	listings ListingRepository
	storage  upload.Storage
	cfg      Config
	notifs   Notifier
}

func NewService(listings ListingRepository, storage upload.Storage, cfg Config, notifs Notifier) *Service {
	if cfg.PageSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		listings: listings,
		storage:  storage,
		cfg:      cfg,
		notifs:   notifs,
	}
}

// Create inserts a listing owned by the actor. Super admin creators get
// an auto-approved listing with themselves recorded as the approver;
// everyone else starts in the pending bucket.
func (s *Service) Create(ctx context.Context, actorID int64, actorRole auth.UserRole, req *CreateListingRequest) (*Listing, error) {
	if err := validateBounds(req.Price, req.Bedrooms, req.Bathrooms, req.Area); err != nil {
		return nil, err
	}

	status := StatusAvailable
	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidListing, req.Status)
		}
		status = req.Status
	}

	l := &Listing{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Price:          req.Price,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Area:           req.Area,
		Status:         status,
		ApprovalStatus: ApprovalPending,
		AgentID:        actorID,
	}

	if actorRole == auth.RoleSuperAdmin {
		now := time.Now()
		l.ApprovalStatus = ApprovalApproved
		l.ApprovedBy = &actorID
		l.ApprovedAt = &now
	}

	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}

	log.Printf("listing: created listing_id=%d agent_id=%d approval=%s", l.ID, actorID, l.ApprovalStatus)
	return l, nil
}

// Get applies the visibility rule to a single fetch: approved listings
// are public, everything else is for the owning agent and reviewers.
func (s *Service) Get(ctx context.Context, id, viewerID int64, viewerRole auth.UserRole) (*Listing, error) {
	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.ApprovalStatus != ApprovalApproved &&
		l.AgentID != viewerID &&
		!viewerRole.AtLeast(auth.RoleAdmin) {
		return nil, ErrListingNotFound
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Listing, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.PageSize
	}
	return s.listings.List(ctx, f)
}

// Update is allowed for the owning agent and super admins. Admins are
// deliberately excluded here; they may delete but not edit (see Delete).
func (s *Service) Update(ctx context.Context, id, actorID int64, actorRole auth.UserRole, req *UpdateListingRequest) (*Listing, error) {
	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrInvalidListing)
		}
		fields["price"] = *req.Price
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.State != nil {
		fields["state"] = *req.State
	}
	if req.Bedrooms != nil {
		if *req.Bedrooms < 0 || *req.Bedrooms > maxBedrooms {
			return nil, fmt.Errorf("%w: bedrooms out of range", ErrInvalidListing)
		}
		fields["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		if *req.Bathrooms < 0 || *req.Bathrooms > maxBathrooms {
			return nil, fmt.Errorf("%w: bathrooms out of range", ErrInvalidListing)
		}
		fields["bathrooms"] = *req.Bathrooms
	}
	if req.Area != nil {
		if *req.Area < 0 {
			return nil, fmt.Errorf("%w: area must be >= 0", ErrInvalidListing)
		}
		fields["area"] = *req.Area
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidListing, *req.Status)
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		return l, nil
	}
	fields["updated_at"] = time.Now()

	if err := s.listings.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	log.Printf("listing: updated listing_id=%d actor_id=%d", id, actorID)
	return s.getByID(ctx, id)
}

// Delete is wider than Update: the owning agent, admins and super
// admins may all remove a listing.
func (s *Service) Delete(ctx context.Context, id, actorID int64, actorRole auth.UserRole) error {
	l, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if !canDelete(l, actorID, actorRole) {
		return ErrForbidden
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("listing: deleted listing_id=%d actor_id=%d", id, actorID)
	return nil
}

// Approve moves a pending listing to approved via a conditional update
// and clears any rejection reason left from an earlier cycle.
func (s *Service) Approve(ctx context.Context, id, adminID int64) (*Listing, error) {
	now := time.Now()
	rows, err := s.listings.ClaimPending(ctx, id, map[string]any{
		"approval_status":  ApprovalApproved,
		"approved_by":      adminID,
		"approved_at":      now,
		"rejection_reason": "",
		"updated_at":       now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.claimFailure(ctx, id)
	}

	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyListingApproved(ctx, l.AgentID, l.ID)
	}

	log.Printf("listing: approved listing_id=%d admin_id=%d", id, adminID)
	return l, nil
}

func (s *Service) Reject(ctx context.Context, id, adminID int64, reason string) (*Listing, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > s.cfg.MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	now := time.Now()
	rows, err := s.listings.ClaimPending(ctx, id, map[string]any{
		"approval_status":  ApprovalRejected,
		"approved_by":      adminID,
		"approved_at":      now,
		"rejection_reason": reason,
		"updated_at":       now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.claimFailure(ctx, id)
	}

	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyListingRejected(ctx, l.AgentID, l.ID, reason)
	}

	log.Printf("listing: rejected listing_id=%d admin_id=%d", id, adminID)
	return l, nil
}

func (s *Service) BulkApprove(ctx context.Context, ids []int64, adminID int64) *BulkResult {
	result := &BulkResult{}
	for _, id := range ids {
		l, err := s.Approve(ctx, id, adminID)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{ListingID: id, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *l)
	}
	return result
}

func (s *Service) BulkReject(ctx context.Context, ids []int64, adminID int64, reason string) *BulkResult {
	result := &BulkResult{}
	for _, id := range ids {
		l, err := s.Reject(ctx, id, adminID, reason)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{ListingID: id, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *l)
	}
	return result
}

// AttachImage uploads the blob and appends its URL to the listing.
// Same permission set as Update.
func (s *Service) AttachImage(ctx context.Context, id, actorID int64, actorRole auth.UserRole, data []byte, filename string) (*Listing, error) {
	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	urls := l.ImageURLs()
	if len(urls) >= s.cfg.MaxImages {
		return nil, ErrTooManyImages
	}

	url, err := s.storage.Upload(ctx, data, filename, "listings")
	if err != nil {
		return nil, err
	}

	urls = append(urls, url)
	if err := l.SetImageURLs(urls); err != nil {
		return nil, err
	}
	if err := s.listings.UpdateFields(ctx, id, map[string]any{
		"images":     l.Images,
		"updated_at": time.Now(),
	}); err != nil {
		// Keep the store consistent: drop the orphaned blob.
		_ = s.storage.Delete(ctx, url)
		return nil, err
	}

	log.Printf("listing: image attached listing_id=%d actor_id=%d url=%s", id, actorID, url)
	return s.getByID(ctx, id)
}

func (s *Service) DetachImage(ctx context.Context, id, actorID int64, actorRole auth.UserRole, url string) (*Listing, error) {
	l, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEdit(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	urls := l.ImageURLs()
	kept := make([]string, 0, len(urls))
	found := false
	for _, u := range urls {
		if u == url && !found {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return nil, ErrImageNotFound
	}

	if err := l.SetImageURLs(kept); err != nil {
		return nil, err
	}
	if err := s.listings.UpdateFields(ctx, id, map[string]any{
		"images":     l.Images,
		"updated_at": time.Now(),
	}); err != nil {
		return nil, err
	}

	if err := s.storage.Delete(ctx, url); err != nil {
		// Listing record already updated; an unreachable blob is only
		// storage garbage, so log and move on.
		log.Printf("listing: blob delete failed listing_id=%d url=%s err=%v", id, url, err)
	}

	log.Printf("listing: image detached listing_id=%d actor_id=%d url=%s", id, actorID, url)
	return s.getByID(ctx, id)
}

// Stats aggregates approval and market-state counts.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	db := s.listings.DB().WithContext(ctx)

	stats := &StatsResponse{
		ByApproval: map[ApprovalStatus]int{},
		ByStatus:   map[ListingStatus]int{},
	}

	var total int64
	if err := db.Model(&Listing{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Total = int(total)

	type bucket struct {
		Key   string
		Count int
	}

	var approvals []bucket
	if err := db.Model(&Listing{}).
		Select("approval_status AS key, COUNT(*) AS count").
		Group("approval_status").
		Scan(&approvals).Error; err != nil {
		return nil, err
	}
	for _, b := range approvals {
		stats.ByApproval[ApprovalStatus(b.Key)] = b.Count
	}

	var statuses []bucket
	if err := db.Model(&Listing{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return nil, err
	}
	for _, b := range statuses {
		stats.ByStatus[ListingStatus(b.Key)] = b.Count
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var createdToday int64
	if err := db.Model(&Listing{}).
		Where("created_at >= ?", midnight).
		Count(&createdToday).Error; err != nil {
		return nil, err
	}
	stats.CreatedToday = int(createdToday)

	return stats, nil
}

func (s *Service) getByID(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) claimFailure(ctx context.Context, id int64) error {
	if _, err := s.listings.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return ErrAlreadyReviewed
}

func canEdit(l *Listing, actorID int64, role auth.UserRole) bool {
	return l.AgentID == actorID || role == auth.RoleSuperAdmin
}

func canDelete(l *Listing, actorID int64, role auth.UserRole) bool {
	return l.AgentID == actorID || role.AtLeast(auth.RoleAdmin)
}

func validateBounds(price float64, bedrooms, bathrooms int, area float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidListing)
	}
	if bedrooms < 0 || bedrooms > maxBedrooms {
		return fmt.Errorf("%w: bedrooms out of range", ErrInvalidListing)
	}
	if bathrooms < 0 || bathrooms > maxBathrooms {
		return fmt.Errorf("%w: bathrooms out of range", ErrInvalidListing)
	}
	if area < 0 {
		return fmt.Errorf("%w: area must be >= 0", ErrInvalidListing)
	}
	return nil
}

package verification

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"estatehub/internal/domain/auth"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Config carries the workflow limits, threaded in from the runtime
// config so the service stays testable without env lookups.
type Config struct {
	PageSize        int
	MaxPageSize     int
	MaxReasonLength int
}

func DefaultConfig() Config {
	return Config{
		PageSize:        20,
		MaxPageSize:     100,
		MaxReasonLength: 500,
	}
}

// Notifier delivers in-app notifications about review outcomes.
// Optional; a nil notifier disables delivery.
type Notifier interface {
	NotifyVerificationApproved(ctx context.Context, userID int64) error
	NotifyVerificationRejected(ctx context.Context, userID int64, reason string) error
}

type Service struct {
	users    auth.UserRepository
	requests RequestRepository
	cfg      Config
	notifs   Notifier
}

func NewService(users auth.UserRepository, requests RequestRepository, cfg Config, notifs Notifier) *Service {
	if cfg.PageSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		users:    users,
		requests: requests,
		cfg:      cfg,
		notifs:   notifs,
	}
}

// Register creates a pending user together with its verification request
// in one transaction. Email uniqueness is case-insensitive.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Request, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, auth.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		Email:              email,
		PasswordHash:       hash,
		Role:               auth.RoleUser,
		Name:               req.Name,
		Phone:              req.Phone,
		Position:           req.Position,
		IsActive:           true,
		IsVerified:         false,
		VerificationStatus: auth.StatusPending,
	}

	var request *Request
	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		request = &Request{
			UserID:   user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Phone:    user.Phone,
			Position: user.Position,
			Status:   StatusPending,
		}
		return tx.Create(request).Error
	})
	if err != nil {
		// Two registrations can race past the lookup above; the unique
		// index on users.email decides the winner.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, auth.ErrEmailAlreadyExists
		}
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, auth.ErrEmailAlreadyExists
		}
		return nil, err
	}

	log.Printf("verification: request created request_id=%d user_id=%d", request.ID, user.ID)
	return request, nil
}

// Approve moves a pending request to approved and syncs the user record.
// The transition is a conditional update on status=pending, so of two
// concurrent reviewers only the first succeeds.
func (s *Service) Approve(ctx context.Context, requestID, reviewerID int64, notes string) (*Request, error) {
	now := time.Now()

	rows, err := s.requests.ClaimPending(ctx, requestID, map[string]any{
		"status":      StatusApproved,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
		"notes":       notes,
		"updated_at":  now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.claimFailure(ctx, requestID)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// The request row is the source of truth; the user row follows it
	// outside the conditional update. On a partial failure the next
	// approve attempt returns ErrAlreadyReviewed and the user row can be
	// repaired from the request, so we do not wrap the pair in a
	// transaction here.
	if err := s.syncUser(ctx, request, reviewerID, now); err != nil {
		log.Printf("verification: user sync failed request_id=%d user_id=%d err=%v", requestID, request.UserID, err)
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationApproved(ctx, request.UserID)
	}

	log.Printf("verification: approved request_id=%d user_id=%d reviewer_id=%d", requestID, request.UserID, reviewerID)
	return request, nil
}

// Reject mirrors Approve; the reason is mandatory and bounded.
func (s *Service) Reject(ctx context.Context, requestID, reviewerID int64, reason, notes string) (*Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > s.cfg.MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	now := time.Now()
	rows, err := s.requests.ClaimPending(ctx, requestID, map[string]any{
		"status":           StatusRejected,
		"reviewed_by":      reviewerID,
		"reviewed_at":      now,
		"notes":            notes,
		"rejection_reason": reason,
		"updated_at":       now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, s.claimFailure(ctx, requestID)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.syncUser(ctx, request, reviewerID, now); err != nil {
		log.Printf("verification: user sync failed request_id=%d user_id=%d err=%v", requestID, request.UserID, err)
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationRejected(ctx, request.UserID, reason)
	}

	log.Printf("verification: rejected request_id=%d user_id=%d reviewer_id=%d", requestID, request.UserID, reviewerID)
	return request, nil
}

// claimFailure distinguishes a missing request from an already-reviewed one.
func (s *Service) claimFailure(ctx context.Context, requestID int64) error {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return ErrAlreadyReviewed
}

func (s *Service) syncUser(ctx context.Context, request *Request, reviewerID int64, now time.Time) error {
	fields := map[string]any{
		"verification_status": request.userStatus(),
		"is_verified":         request.Status == StatusApproved,
		"verified_by":         reviewerID,
		"verified_at":         now,
		"rejection_reason":    request.RejectionReason,
		"updated_at":          now,
	}
	return s.users.UpdateFields(ctx, request.UserID, fields)
}

// BulkApprove processes IDs in input order; a failure on one ID is
// collected and does not abort the batch.
func (s *Service) BulkApprove(ctx context.Context, requestIDs []int64, reviewerID int64, notes string) *BulkResult {
	result := &BulkResult{}
	for _, id := range requestIDs {
		request, err := s.Approve(ctx, id, reviewerID, notes)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{RequestID: id, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *request)
	}
	return result
}

func (s *Service) BulkReject(ctx context.Context, requestIDs []int64, reviewerID int64, reason, notes string) *BulkResult {
	result := &BulkResult{}
	for _, id := range requestIDs {
		request, err := s.Reject(ctx, id, reviewerID, reason, notes)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{RequestID: id, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *request)
	}
	return result
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Request, error) {
	request, err := s.requests.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Request, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.PageSize
	}
	return s.requests.List(ctx, f)
}

// Stats aggregates request counts and the average review turnaround.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	db := s.requests.DB().WithContext(ctx).Model(&Request{})

	var total, pending, approved, rejected int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.countByStatus(ctx, StatusPending, &pending); err != nil {
		return nil, err
	}
	if err := s.countByStatus(ctx, StatusApproved, &approved); err != nil {
		return nil, err
	}
	if err := s.countByStatus(ctx, StatusRejected, &rejected); err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var requestedToday, reviewedToday int64
	if err := s.requests.DB().WithContext(ctx).Model(&Request{}).
		Where("created_at >= ?", midnight).
		Count(&requestedToday).Error; err != nil {
		return nil, err
	}
	if err := s.requests.DB().WithContext(ctx).Model(&Request{}).
		Where("reviewed_at >= ?", midnight).
		Count(&reviewedToday).Error; err != nil {
		return nil, err
	}

	// Turnaround is computed in Go so the same query works on both
	// postgres and the sqlite test database.
	type reviewTimes struct {
		CreatedAt  time.Time
		ReviewedAt *time.Time
	}
	var rows []reviewTimes
	if err := s.requests.DB().WithContext(ctx).Model(&Request{}).
		Select("created_at", "reviewed_at").
		Where("status <> ?", StatusPending).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var avgHours float64
	if len(rows) > 0 {
		var sum float64
		var n int
		for _, row := range rows {
			if row.ReviewedAt == nil {
				continue
			}
			sum += row.ReviewedAt.Sub(row.CreatedAt).Hours()
			n++
		}
		if n > 0 {
			avgHours = sum / float64(n)
		}
	}

	return &StatsResponse{
		Total:                int(total),
		Pending:              int(pending),
		Approved:             int(approved),
		Rejected:             int(rejected),
		RequestedToday:       int(requestedToday),
		ReviewedToday:        int(reviewedToday),
		AvgProcessingTimeHrs: avgHours,
	}, nil
}

func (s *Service) countByStatus(ctx context.Context, status RequestStatus, out *int64) error {
	return s.requests.DB().WithContext(ctx).Model(&Request{}).
		Where("status = ?", status).
		Count(out).Error
}

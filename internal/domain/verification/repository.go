package verification

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows the admin request listing
type ListFilter struct {
	Status *RequestStatus
	From   *time.Time
	To     *time.Time
	Query  string // free-text over name/email/position
	Page   int
	Limit  int
}

type RequestRepository interface {
	DB() *gorm.DB
	GetByID(ctx context.Context, id int64) (*Request, error)
	GetByUserID(ctx context.Context, userID int64) (*Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, int64, error)
	// ClaimPending applies fields to the request only if it is still
	// pending. Returns the number of rows updated: 0 means the request is
	// missing or already terminal, so two racing reviewers cannot both win.
	ClaimPending(ctx context.Context, id int64, fields map[string]any) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) DB() *gorm.DB {
	return r.db
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*Request, error) {
	var req Request
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetByUserID(ctx context.Context, userID int64) (*Request, error) {
	var req Request
	if err := r.db.WithContext(ctx).First(&req, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, f ListFilter) ([]Request, int64, error) {
	q := r.db.WithContext(ctx).Model(&Request{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		sv := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?", sv, sv, sv)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []Request
	offset := (f.Page - 1) * f.Limit
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) ClaimPending(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Request{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	return res.RowsAffected, res.Error
}

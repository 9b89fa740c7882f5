package lead

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// ListFilter narrows the lead listing
type ListFilter struct {
	Status     *Status
	Priority   *Priority
	Source     *Source
	AssignedTo *int64
	Unassigned bool
	Query      string // free-text over name/phone/email/message
	Page       int
	Limit      int
}

type LeadRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id int64) (*Lead, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	List(ctx context.Context, f ListFilter) ([]Lead, int64, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) DB() *gorm.DB {
	return r.db
}

func (r *leadRepository) Create(ctx context.Context, l *Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leadRepository) GetByID(ctx context.Context, id int64) (*Lead, error) {
	var l Lead
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&Lead{}).Where("id = ?", id).Updates(fields).Error
}

func (r *leadRepository) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&Lead{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Source != nil {
		q = q.Where("source = ?", *f.Source)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.Unassigned {
		q = q.Where("assigned_to IS NULL")
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		sv := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ? OR LOWER(message) LIKE ?",
			sv, sv, sv, sv,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []Lead
	offset := (f.Page - 1) * f.Limit
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

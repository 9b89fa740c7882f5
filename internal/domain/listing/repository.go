package listing

import (
	"context"
	"strings"

	"estatehub/internal/domain/auth"

	"gorm.io/gorm"
)

// ListFilter narrows the listing query. ViewerID/ViewerRole drive the
// visibility predicate; ViewerID 0 means anonymous.
type ListFilter struct {
	ViewerID   int64
	ViewerRole auth.UserRole

	Status   *ListingStatus
	Approval *ApprovalStatus // honored for super admins only
	City     string
	MinPrice float64
	MaxPrice float64
	Bedrooms int
	Query    string // free-text over title/description/address/city
	Page     int
	Limit    int
}

type ListingRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	Update(ctx context.Context, l *Listing) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter) ([]Listing, int64, error)
	// ClaimPending conditionally updates a listing still awaiting
	// approval; 0 rows means missing or already reviewed.
	ClaimPending(ctx context.Context, id int64, fields map[string]any) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) DB() *gorm.DB {
	return r.db
}

func (r *listingRepository) Create(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*Listing, error) {
	var l Listing
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *listingRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Updates(fields).Error
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&Listing{}, "id = ?", id).Error
}

// List applies the visibility rule as one combined predicate so the
// total count and the page contents always agree:
//   - super admins see pending+approved by default, or exactly the
//     requested approval bucket;
//   - everyone else sees every approved listing plus their own pending
//     and rejected ones (anonymous viewers therefore see approved only).
func (r *listingRepository) List(ctx context.Context, f ListFilter) ([]Listing, int64, error) {
	q := r.db.WithContext(ctx).Model(&Listing{})

	if f.ViewerRole == auth.RoleSuperAdmin {
		if f.Approval != nil {
			q = q.Where("approval_status = ?", *f.Approval)
		} else {
			q = q.Where("approval_status IN ?", []ApprovalStatus{ApprovalPending, ApprovalApproved})
		}
	} else if f.ViewerID > 0 {
		q = q.Where(
			"approval_status = ? OR (agent_id = ? AND approval_status IN ?)",
			ApprovalApproved, f.ViewerID, []ApprovalStatus{ApprovalPending, ApprovalRejected},
		)
	} else {
		q = q.Where("approval_status = ?", ApprovalApproved)
	}

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(f.City))
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if f.Bedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.Bedrooms)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		sv := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ? OR LOWER(city) LIKE ?",
			sv, sv, sv, sv,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []Listing
	offset := (f.Page - 1) * f.Limit
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *listingRepository) ClaimPending(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Listing{}).
		Where("id = ? AND approval_status = ?", id, ApprovalPending).
		Updates(fields)
	return res.RowsAffected, res.Error
}

package lead

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"estatehub/internal/domain/auth"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Config struct {
	PageSize    int
	MaxPageSize int
	Weights     ScoreWeights
}

func DefaultConfig() Config {
	return Config{
		PageSize:    20,
		MaxPageSize: 100,
		Weights:     DefaultScoreWeights(),
	}
}

type Notifier interface {
	NotifyLeadAssigned(ctx context.Context, assigneeID, leadID int64) error
}

type Service struct {
	leads  LeadRepository
	users  auth.UserRepository
	cfg    Config
	notifs Notifier
}

func NewService(leads LeadRepository, users auth.UserRepository, cfg Config, notifs Notifier) *Service {
	if cfg.PageSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{
		leads:  leads,
		users:  users,
		cfg:    cfg,
		notifs: notifs,
	}
}

// NormalizePhone strips everything but digits and requires 10-15 of them.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// Create stores an inbound lead. The score and its derived conversion
// probability are computed here, synchronously, and never again.
func (s *Service) Create(ctx context.Context, req *SubmitLeadRequest) (*Lead, error) {
	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	source := SourceOther
	if req.Source != "" {
		if !req.Source.IsValid() {
			source = SourceOther
		} else {
			source = req.Source
		}
	}

	priority := PriorityMedium
	if req.Priority != "" {
		if !req.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		priority = req.Priority
	}

	l := &Lead{
		Name:           strings.TrimSpace(req.Name),
		Phone:          phone,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Message:        req.Message,
		Source:         source,
		Status:         StatusNew,
		Priority:       priority,
		Notes:          req.Notes,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		PreferredCity:  req.PreferredCity,
		PreferredState: req.PreferredState,
	}

	if len(req.Tags) > 0 {
		data, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, err
		}
		l.Tags = datatypes.JSON(data)
	}
	if len(req.PropertyInterests) > 0 {
		data, err := json.Marshal(req.PropertyInterests)
		if err != nil {
			return nil, err
		}
		l.PropertyInterests = datatypes.JSON(data)
	}

	l.Score = s.cfg.Weights.Score(l)
	// The conversion probability starts as a score-derived baseline and
	// is only ever adjusted manually afterwards.
	l.ConversionProbability = clampScore(l.Score / 2)

	if err := s.leads.Create(ctx, l); err != nil {
		return nil, err
	}

	log.Printf("lead: created lead_id=%d source=%s score=%d", l.ID, l.Source, l.Score)
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.PageSize
	}
	return s.leads.List(ctx, f)
}

// UpdateStatus is allowed for the current assignee and for admins.
// Moving to contacted always refreshes LastContactedAt, even if the
// lead was contacted before.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status, actorID int64, actorRole auth.UserRole) (*Lead, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	now := time.Now()
	fields := map[string]any{
		"status":     status,
		"updated_at": now,
	}
	if status == StatusContacted {
		fields["last_contacted_at"] = now
	}

	if err := s.leads.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	log.Printf("lead: status updated lead_id=%d status=%s actor_id=%d", id, status, actorID)
	return s.GetByID(ctx, id)
}

// Assign attaches a lead to an assignee. The assignee must resolve to an
// existing identity; any identity qualifies, the admin gate sits on the
// route.
func (s *Service) Assign(ctx context.Context, id, assigneeID, assignerID int64) (*Lead, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}

	now := time.Now()
	if err := s.leads.UpdateFields(ctx, id, map[string]any{
		"assigned_to": assigneeID,
		"assigned_by": assignerID,
		"assigned_at": now,
		"updated_at":  now,
	}); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyLeadAssigned(ctx, assigneeID, l.ID)
	}

	log.Printf("lead: assigned lead_id=%d assignee_id=%d assigner_id=%d", id, assigneeID, assignerID)
	return s.GetByID(ctx, id)
}

// Unassign clears the assignment triple. Allowed for the current
// assignee and for admins.
func (s *Service) Unassign(ctx context.Context, id, actorID int64, actorRole auth.UserRole) (*Lead, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.AssignedTo == nil {
		return nil, ErrNotAssigned
	}
	if !canManage(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	if err := s.leads.UpdateFields(ctx, id, map[string]any{
		"assigned_to": nil,
		"assigned_by": nil,
		"assigned_at": nil,
		"updated_at":  time.Now(),
	}); err != nil {
		return nil, err
	}

	log.Printf("lead: unassigned lead_id=%d actor_id=%d", id, actorID)
	return s.GetByID(ctx, id)
}

// BulkAssign processes IDs in input order, collecting per-item failures.
func (s *Service) BulkAssign(ctx context.Context, leadIDs []int64, assigneeID, assignerID int64) *BulkResult {
	result := &BulkResult{}
	for _, id := range leadIDs {
		l, err := s.Assign(ctx, id, assigneeID, assignerID)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{LeadID: id, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *l)
	}
	return result
}

// Update edits lead fields. Scoring-relevant fields may change here, but
// the stored score is deliberately left alone (create-time only).
func (s *Service) Update(ctx context.Context, id int64, actorID int64, actorRole auth.UserRole, req *UpdateLeadRequest) (*Lead, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(l, actorID, actorRole) {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Message != nil {
		fields["message"] = *req.Message
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *req.Priority
	}
	if req.Tags != nil {
		data, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = datatypes.JSON(data)
	}
	if req.PropertyInterests != nil {
		data, err := json.Marshal(req.PropertyInterests)
		if err != nil {
			return nil, err
		}
		fields["property_interests"] = datatypes.JSON(data)
	}
	if req.BudgetMin != nil {
		fields["budget_min"] = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		fields["budget_max"] = *req.BudgetMax
	}
	if req.PreferredCity != nil {
		fields["preferred_city"] = *req.PreferredCity
	}
	if req.PreferredState != nil {
		fields["preferred_state"] = *req.PreferredState
	}
	if req.ConversionProbability != nil {
		fields["conversion_probability"] = clampScore(*req.ConversionProbability)
	}
	if len(fields) == 0 {
		return l, nil
	}
	fields["updated_at"] = time.Now()

	if err := s.leads.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	log.Printf("lead: updated lead_id=%d actor_id=%d", id, actorID)
	return s.GetByID(ctx, id)
}

// Stats aggregates lead counts and the conversion rate.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	db := s.leads.DB().WithContext(ctx)

	stats := &StatsResponse{
		ByStatus:   map[Status]int{},
		BySource:   map[Source]int{},
		ByPriority: map[Priority]int{},
	}

	var total int64
	if err := db.Model(&Lead{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Total = int(total)

	type bucket struct {
		Key   string
		Count int
	}

	var byStatus []bucket
	if err := db.Model(&Lead{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[Status(b.Key)] = b.Count
	}

	var bySource []bucket
	if err := db.Model(&Lead{}).
		Select("source AS key, COUNT(*) AS count").
		Group("source").
		Scan(&bySource).Error; err != nil {
		return nil, err
	}
	for _, b := range bySource {
		stats.BySource[Source(b.Key)] = b.Count
	}

	var byPriority []bucket
	if err := db.Model(&Lead{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, b := range byPriority {
		stats.ByPriority[Priority(b.Key)] = b.Count
	}

	var unassigned int64
	if err := db.Model(&Lead{}).
		Where("assigned_to IS NULL").
		Count(&unassigned).Error; err != nil {
		return nil, err
	}
	stats.Unassigned = int(unassigned)

	if total > 0 {
		var avgScore float64
		if err := db.Model(&Lead{}).
			Select("AVG(score)").
			Scan(&avgScore).Error; err != nil {
			return nil, err
		}
		stats.AvgScore = avgScore

		converted := stats.ByStatus[StatusConverted]
		stats.ConversionRate = int(math.Round(100 * float64(converted) / float64(total)))
	}

	return stats, nil
}

func canManage(l *Lead, actorID int64, role auth.UserRole) bool {
	return l.IsAssignedTo(actorID) || role.AtLeast(auth.RoleAdmin)
}

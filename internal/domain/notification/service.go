package notification

import (
	"context"
	"fmt"
	"time"
)

// Service persists notifications and pushes them to connected clients.
// It satisfies the Notifier interfaces of the verification, listing and
// lead packages.
type Service struct {
	repo Repository
	hub  *Hub
}

func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) ListForUser(ctx context.Context, userID int64, filter ListFilter) ([]Notification, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.ListForUser(ctx, userID, filter)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks a single notification as read. Users can only touch
// their own notifications.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) NotifyVerificationApproved(ctx context.Context, userID int64) error {
	return s.create(ctx, userID, TypeVerificationApproved,
		"Account verified",
		"Your account has been verified. You can now sign in and publish listings.")
}

func (s *Service) NotifyVerificationRejected(ctx context.Context, userID int64, reason string) error {
	return s.create(ctx, userID, TypeVerificationRejected,
		"Verification rejected",
		fmt.Sprintf("Your verification request was rejected: %s", reason))
}

func (s *Service) NotifyListingApproved(ctx context.Context, agentID, listingID int64) error {
	return s.create(ctx, agentID, TypeListingApproved,
		"Listing approved",
		fmt.Sprintf("Your listing #%d has been approved and is now publicly visible.", listingID))
}

func (s *Service) NotifyListingRejected(ctx context.Context, agentID, listingID int64, reason string) error {
	return s.create(ctx, agentID, TypeListingRejected,
		"Listing rejected",
		fmt.Sprintf("Your listing #%d was rejected: %s", listingID, reason))
}

func (s *Service) NotifyLeadAssigned(ctx context.Context, assigneeID, leadID int64) error {
	return s.create(ctx, assigneeID, TypeLeadAssigned,
		"Lead assigned",
		fmt.Sprintf("Lead #%d has been assigned to you.", leadID))
}

func (s *Service) create(ctx context.Context, userID int64, typ Type, title, body string) error {
	n := &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Push(userID, &WSEvent{Type: EventNotification, Payload: n})
	}
	return nil
}

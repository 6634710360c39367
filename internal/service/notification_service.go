package service

import (
	"context"

	"azaunur/internal/markup"
	"azaunur/internal/models"
	"azaunur/internal/observability"
	"azaunur/internal/repository"
)

// NotificationRef carries the optional subject references of a notification.
type NotificationRef struct {
	PostID    *uint
	CommentID *uint
}

// NotificationService appends fan-out rows and serves the inbox. Rows are
// never deleted when the triggering engagement is toggled off.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Emit appends one notification row. Events a user triggers on their own
// content are suppressed.
func (s *NotificationService) Emit(ctx context.Context, recipientID, actorID uint, kind models.NotificationKind, ref NotificationRef) error {
	if recipientID == actorID {
		observability.NotificationsSuppressed.Inc()
		return nil
	}
	n := &models.Notification{
		UserID:     recipientID,
		FromUserID: &actorID,
		Kind:       kind,
		PostID:     ref.PostID,
		CommentID:  ref.CommentID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	observability.NotificationsEmitted.WithLabelValues(string(kind)).Inc()
	return nil
}

// NotifyMentions resolves @handles in text and emits one mention notification
// per resolved account. Unknown handles are dropped; the actor never notifies
// themselves.
func (s *NotificationService) NotifyMentions(ctx context.Context, actorID uint, text string, ref NotificationRef) error {
	handles := markup.ExtractMentions(text)
	if len(handles) == 0 {
		return nil
	}
	users, err := s.userRepo.GetByHandles(ctx, handles)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := s.Emit(ctx, u.ID, actorID, models.NotificationMention, ref); err != nil {
			return err
		}
	}
	return nil
}

// ListAndMarkRead marks the whole inbox read and returns the newest page.
func (s *NotificationService) ListAndMarkRead(ctx context.Context, userID uint) ([]*models.Notification, error) {
	return s.notificationRepo.ListAndMarkRead(ctx, userID)
}

// UnreadCount returns the raw unread total. Capping for display is the
// client's concern.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

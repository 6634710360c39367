package repository

import (
	"context"

	"azaunur/internal/models"

	"gorm.io/gorm"
)

// notificationPageSize caps how many notifications a single listing returns.
const notificationPageSize = 100

// NotificationRepository stores the append-only notification log.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListAndMarkRead marks every unread notification for the user as read
	// and returns the newest page, sender preloaded.
	ListAndMarkRead(ctx context.Context, userID uint) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	// DeleteForPost removes notifications referencing the post, including
	// those referencing its comments.
	DeleteForPost(ctx context.Context, postID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListAndMarkRead(ctx context.Context, userID uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			Update("read", true).Error; err != nil {
			return err
		}
		return tx.Preload("FromUser").
			Where("user_id = ?", userID).
			Order("created_at DESC, id DESC").
			Limit(notificationPageSize).
			Find(&notifications).Error
	})
	return notifications, err
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) DeleteForPost(ctx context.Context, postID uint) error {
	db := r.db.WithContext(ctx)
	commentIDs := db.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)
	if err := db.Where("comment_id IN (?)", commentIDs).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	return db.Where("post_id = ?", postID).Delete(&models.Notification{}).Error
}

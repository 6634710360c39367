package models

import (
	"time"
)

// NotificationKind enumerates the events that fan out to notifications.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationRepost  NotificationKind = "repost"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
	NotificationMention NotificationKind = "mention"
)

// Notification is append-only: rows are never deleted when the triggering
// engagement is toggled off. Read flips to true only as a side effect of the
// recipient listing their notifications.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	FromUserID *uint            `json:"from_user_id,omitempty"`
	FromUser   *User            `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	Kind       NotificationKind `gorm:"size:30;not null" json:"kind"`
	PostID     *uint            `json:"post_id,omitempty"`
	CommentID  *uint            `json:"comment_id,omitempty"`
	Read       bool             `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}

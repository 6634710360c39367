package models

import (
	"time"
)

// Engagement facts: a row records that an actor performed an action on a
// subject. Existence is the active state; toggling off deletes the row, so no
// fact table carries a soft-delete column. Every table is unique on the
// (actor, subject) pair.

// PostLike records that a user liked a post.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_pair" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_pair" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike records that a user liked a comment.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_pair" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_pair" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repost is a re-share fact, not a copy. Deleting the original post removes
// its reposts.
type Repost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_repost_pair" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_repost_pair" json:"post_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}

// SavedPost records that a user bookmarked a post.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_post_pair" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_saved_post_pair" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView records that a post was surfaced to a viewer at least once.
type PostView struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	PostID uint `gorm:"not null;uniqueIndex:idx_post_view_pair" json:"post_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_post_view_pair" json:"user_id"`
}

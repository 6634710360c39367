package models

import (
	"time"
)

// Post represents an original piece of content. Body and EditedAt are the only
// mutable fields; everything else is fixed at creation.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	Image     string     `gorm:"size:200" json:"image,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	// Computed at query time, never persisted.
	LikesCount    int64 `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`
	RepostsCount  int64 `gorm:"->;-:migration" json:"reposts_count"`
	ViewsCount    int64 `gorm:"->;-:migration" json:"views_count"`
	// Liked/Reposted/Saved indicate whether the requesting viewer holds the
	// corresponding engagement fact on this post.
	Liked    bool `gorm:"->;-:migration" json:"liked"`
	Reposted bool `gorm:"->;-:migration" json:"reposted"`
	Saved    bool `gorm:"->;-:migration" json:"saved"`

	// BodyHTML is the linkified, escape-safe rendering of Body.
	BodyHTML string `gorm:"-" json:"body_html,omitempty"`
}

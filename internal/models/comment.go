package models

import (
	"time"
)

// Comment belongs to a post and carries its own like facts.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PostID    uint       `gorm:"not null;index" json:"post_id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
	Liked      bool  `gorm:"->;-:migration" json:"liked"`

	BodyHTML string `gorm:"-" json:"body_html,omitempty"`
}

package models

import (
	"time"
)

// Verification badge types an admin can grant.
const (
	VerificationGold      = "gold"
	VerificationVIP       = "vip"
	VerificationExclusive = "exclusive"
)

// User is an account. Handle is the public name used in @mentions and
// profile URLs.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Handle           string     `gorm:"size:80;uniqueIndex;not null" json:"handle"`
	Email            string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"size:200;not null" json:"-"`
	Avatar           string     `gorm:"size:200" json:"avatar,omitempty"`
	Bio              string     `gorm:"type:text" json:"bio,omitempty"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	VerificationType *string    `gorm:"size:20" json:"verification_type,omitempty"`
	CustomStatus     *string    `gorm:"size:100" json:"custom_status,omitempty"`
	IsAdmin          bool       `gorm:"default:false" json:"is_admin"`
	BannedUntil      *time.Time `json:"banned_until,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`

	// Computed at query time, never persisted.
	FollowersCount int64 `gorm:"->;-:migration" json:"followers_count"`
	FollowingCount int64 `gorm:"->;-:migration" json:"following_count"`
	PostsCount     int64 `gorm:"->;-:migration" json:"posts_count"`
}

// Suspended reports whether a temporary ban is still in effect.
func (u *User) Suspended() bool {
	return u.BannedUntil != nil && time.Now().Before(*u.BannedUntil)
}

package models

import (
	"time"
)

// ReportStatus is the report lifecycle: pending -> forgiven | banned,
// terminal once resolved.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusForgiven ReportStatus = "forgiven"
	ReportStatusBanned   ReportStatus = "banned"
)

// Report is a user-filed complaint about another user, resolved by admins.
type Report struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ReporterID uint         `gorm:"not null" json:"reporter_id"`
	Reporter   User         `gorm:"foreignKey:ReporterID" json:"reporter"`
	ReportedID uint         `gorm:"not null" json:"reported_id"`
	Reported   User         `gorm:"foreignKey:ReportedID" json:"reported"`
	Reason     string       `gorm:"type:text" json:"reason"`
	Status     ReportStatus `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// VerificationStatus is the verification-request lifecycle:
// pending -> approved | rejected, terminal once resolved.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// VerificationRequest is a user's application for a verified badge.
type VerificationRequest struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	User      User               `gorm:"foreignKey:UserID" json:"user"`
	Reason    string             `gorm:"type:text" json:"reason"`
	Status    VerificationStatus `gorm:"size:20;default:'pending';index" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// AdminStats is the aggregate counters shown on the admin dashboard.
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	TotalComments int64 `json:"total_comments"`
	TotalMessages int64 `json:"total_messages"`
	ActiveToday   int64 `json:"active_today"`
}

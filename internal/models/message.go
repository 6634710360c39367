package models

import (
	"time"
)

// Message is a direct message between two accounts.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarizes one DM peer for the conversation list: the peer and
// the most recent message exchanged with them.
type Conversation struct {
	Peer        User    `json:"peer"`
	LastMessage Message `json:"last_message"`
}

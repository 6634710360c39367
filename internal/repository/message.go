package repository

import (
	"context"

	"azaunur/internal/models"

	"gorm.io/gorm"
)

// MessageRepository stores direct messages between pairs of users.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// Thread returns all messages exchanged between two users, oldest first.
	Thread(ctx context.Context, a, b uint) ([]*models.Message, error)
	// LatestPerPeer returns the newest message per conversation partner of
	// userID, newest conversation first.
	LatestPerPeer(ctx context.Context, userID uint) ([]*models.Message, error)
	// MarkThreadRead marks messages sent by peerID to userID as read.
	MarkThreadRead(ctx context.Context, userID, peerID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) Thread(ctx context.Context, a, b uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) LatestPerPeer(ctx context.Context, userID uint) ([]*models.Message, error) {
	// Walk the user's messages newest first and keep the first one seen per
	// peer. Avoids a correlated-subquery shape that differs per dialect.
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]struct{})
	latest := make([]*models.Message, 0)
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.ReceiverID
		}
		if _, ok := seen[peer]; ok {
			continue
		}
		seen[peer] = struct{}{}
		latest = append(latest, m)
	}
	return latest, nil
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, userID, peerID uint) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", peerID, userID, false).
		Update("read", true).Error
}

func (r *messageRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

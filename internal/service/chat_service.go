package service

import (
	"context"
	"strings"

	"azaunur/internal/cache"
	"azaunur/internal/models"
	"azaunur/internal/repository"
)

// ChatService handles direct messages. A block in either direction closes
// the channel both ways.
type ChatService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	visibility  *VisibilityService
}

func NewChatService(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	visibility *VisibilityService,
) *ChatService {
	return &ChatService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		visibility:  visibility,
	}
}

// SendMessage delivers one message to the peer.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Message body is required")
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}
	visible, err := s.visibility.IsMutuallyVisible(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewForbiddenError("This chat is unavailable")
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: receiverID, Body: body}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Thread returns the full exchange with a peer, oldest first, and marks the
// peer's messages read.
func (s *ChatService) Thread(ctx context.Context, userID, peerID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, err
	}
	visible, err := s.visibility.IsMutuallyVisible(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewForbiddenError("This chat is unavailable")
	}

	messages, err := s.messageRepo.Thread(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.MarkThreadRead(ctx, userID, peerID); err != nil {
		return nil, err
	}
	return messages, nil
}

// Conversations lists the user's chats, one entry per peer with the newest
// message, blocked peers omitted.
func (s *ChatService) Conversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	blocked, err := s.visibility.BlockedPeers(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest, err := s.messageRepo.LatestPerPeer(ctx, userID)
	if err != nil {
		return nil, err
	}

	convos := make([]*models.Conversation, 0, len(latest))
	for _, m := range latest {
		peerID := m.SenderID
		if peerID == userID {
			peerID = m.ReceiverID
		}
		if _, hidden := blocked[peerID]; hidden {
			continue
		}
		var peer models.User
		err := cache.Aside(ctx, cache.UserKey(peerID), &peer, cache.UserTTL, func() error {
			fetched, err := s.userRepo.GetByID(ctx, peerID)
			if err != nil {
				return err
			}
			peer = *fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		convos = append(convos, &models.Conversation{Peer: peer, LastMessage: *m})
	}
	return convos, nil
}

// UnreadMessages returns the unread total for the nav badge.
func (s *ChatService) UnreadMessages(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}

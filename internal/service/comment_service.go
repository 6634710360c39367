package service

import (
	"context"
	"strings"
	"time"

	"azaunur/internal/markup"
	"azaunur/internal/models"
	"azaunur/internal/repository"

	"gorm.io/gorm"
)

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Body   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Body      string
}

type CommentService struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

func NewCommentService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		db:          db,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		isAdmin:     isAdmin,
	}
}

// CreateComment adds a comment and fans out to the post author plus anyone
// mentioned in the body, in one transaction.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: in.PostID, UserID: in.UserID, Body: body}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		notifications := NewNotificationService(
			repository.NewNotificationRepository(tx),
			repository.NewUserRepository(tx),
		)
		ref := NotificationRef{PostID: &in.PostID, CommentID: &comment.ID}
		if err := notifications.Emit(ctx, post.UserID, in.UserID, models.NotificationComment, ref); err != nil {
			return err
		}
		return notifications.NotifyMentions(ctx, in.UserID, body, ref)
	})
	if err != nil {
		return nil, err
	}

	comment.BodyHTML = markup.Linkify(comment.Body)
	return comment, nil
}

// UpdateComment edits the body. The author or an admin may edit.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, in.UserID, comment.UserID, "edit"); err != nil {
		return nil, err
	}

	comment.Body = body
	now := time.Now().UTC()
	comment.EditedAt = &now
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	comment.BodyHTML = markup.Linkify(comment.Body)
	return comment, nil
}

// DeleteComment removes the comment and its likes. The author or an admin may
// delete.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, comment.UserID, "delete"); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return repository.NewCommentRepository(tx).DeleteCascade(ctx, commentID)
	})
}

func (s *CommentService) authorize(ctx context.Context, userID, ownerID uint, action string) error {
	if userID == ownerID {
		return nil
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("You can only " + action + " your own comments")
	}
	return nil
}

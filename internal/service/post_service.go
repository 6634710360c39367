package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"azaunur/internal/cache"
	"azaunur/internal/markup"
	"azaunur/internal/middleware"
	"azaunur/internal/models"
	"azaunur/internal/repository"

	"gorm.io/gorm"
)

type CreatePostInput struct {
	UserID uint
	Body   string
	// Image is the raw upload; empty means a text-only post. An unusable
	// image degrades to text-only instead of failing the post.
	Image []byte
}

type UpdatePostInput struct {
	UserID uint
	PostID uint
	Body   string
}

type PostService struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	images      *ImageService
	visibility  *VisibilityService
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	images *ImageService,
	visibility *VisibilityService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		db:          db,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		images:      images,
		visibility:  visibility,
		isAdmin:     isAdmin,
	}
}

// CreatePost stores a new post and fans out mention notifications. The post
// row and its notifications commit together.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Post body is required")
	}

	post := &models.Post{UserID: in.UserID, Body: body}
	if len(in.Image) > 0 {
		filename, err := s.images.SavePostImage(in.Image)
		switch {
		case errors.Is(err, ErrImageUnusable):
			middleware.Logger.WarnContext(ctx, "dropping unusable post image", "user_id", in.UserID)
		case err != nil:
			return nil, err
		default:
			post.Image = filename
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		notifications := NewNotificationService(
			repository.NewNotificationRepository(tx),
			repository.NewUserRepository(tx),
		)
		return notifications.NotifyMentions(ctx, in.UserID, body, NotificationRef{PostID: &post.ID})
	})
	if err != nil {
		return nil, err
	}

	post.BodyHTML = markup.Linkify(post.Body)
	return post, nil
}

// GetPost returns one post with its comments rendered for the viewer and
// records that the viewer has seen it.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, []*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, nil, err
	}
	visible, err := s.visibility.IsMutuallyVisible(ctx, viewerID, post.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !visible {
		return nil, nil, models.NewForbiddenError("You cannot view this post")
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, viewerID)
	if err != nil {
		return nil, nil, err
	}

	if err := repository.NewEngagementRepository(s.db).MarkViews(ctx, viewerID, []uint{postID}); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to record post view", "post_id", postID, "error", err)
	}

	post.BodyHTML = markup.Linkify(post.Body)
	for _, c := range comments {
		c.BodyHTML = markup.Linkify(c.Body)
	}
	return post, comments, nil
}

// UpdatePost edits the body. Only the author may edit, admins included not.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Post body is required")
	}
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	post.Body = body
	now := time.Now().UTC()
	post.EditedAt = &now
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, post.ID)
	post.BodyHTML = markup.Linkify(post.Body)
	return post, nil
}

// DeletePost removes the post and everything hanging off it in one
// transaction. The author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Notifications referencing the post's comments resolve through the
		// comments table, so they go first.
		if err := repository.NewNotificationRepository(tx).DeleteForPost(ctx, postID); err != nil {
			return err
		}
		return repository.NewPostRepository(tx).DeleteCascade(ctx, postID)
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// UserPosts lists an account's posts for its profile page. A block in either
// direction hides the list, same as the profile itself.
func (s *PostService) UserPosts(ctx context.Context, authorID, viewerID uint) ([]*models.Post, error) {
	visible, err := s.visibility.IsMutuallyVisible(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewForbiddenError("You cannot view these posts")
	}
	posts, err := s.postRepo.GetByUserID(ctx, authorID, viewerID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.BodyHTML = markup.Linkify(p.Body)
	}
	return posts, nil
}

package service

import (
	"context"

	"azaunur/internal/cache"
	"azaunur/internal/models"
	"azaunur/internal/observability"
	"azaunur/internal/repository"

	"gorm.io/gorm"
)

// ToggleResult reports the state of an engagement fact after a toggle,
// together with the fresh subject-wide count.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// EngagementService flips engagement facts. A toggle and the notification it
// fans out commit in one transaction: if the notification insert fails, the
// fact rolls back with it.
type EngagementService struct {
	db             *gorm.DB
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
}

func NewEngagementService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	engagementRepo repository.EngagementRepository,
) *EngagementService {
	return &EngagementService{
		db:             db,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		engagementRepo: engagementRepo,
	}
}

// TogglePostLike flips the actor's like on the post. Activation notifies the
// post author.
func (s *EngagementService) TogglePostLike(ctx context.Context, actorID, postID uint) (*ToggleResult, error) {
	post, err := s.subjectPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.togglePostFact(ctx, repository.FactPostLike, actorID, post, models.NotificationLike)
}

// ToggleRepost flips the actor's repost of the post. Activation notifies the
// post author.
func (s *EngagementService) ToggleRepost(ctx context.Context, actorID, postID uint) (*ToggleResult, error) {
	post, err := s.subjectPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.togglePostFact(ctx, repository.FactRepost, actorID, post, models.NotificationRepost)
}

// ToggleSave flips the actor's bookmark on the post. Saves are private, so
// nothing fans out.
func (s *EngagementService) ToggleSave(ctx context.Context, actorID, postID uint) (*ToggleResult, error) {
	post, err := s.subjectPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.togglePostFact(ctx, repository.FactSave, actorID, post, "")
}

// ToggleCommentLike flips the actor's like on a comment. Comment likes do not
// fan out.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, actorID, commentID uint) (*ToggleResult, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID, actorID); err != nil {
		return nil, err
	}
	var active bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		active, err = repository.NewEngagementRepository(tx).Toggle(ctx, repository.FactCommentLike, actorID, commentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.result(ctx, repository.FactCommentLike, commentID, active)
}

// subjectPost resolves the toggle subject, cache-aside. Only identity fields
// are consulted, so a few minutes of staleness is harmless.
func (s *EngagementService) subjectPost(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(postID), &post, cache.PostTTL, func() error {
		fetched, err := s.postRepo.GetByID(ctx, postID, 0)
		if err != nil {
			return err
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *EngagementService) togglePostFact(ctx context.Context, fact repository.Fact, actorID uint, post *models.Post, kind models.NotificationKind) (*ToggleResult, error) {
	var active bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		active, err = repository.NewEngagementRepository(tx).Toggle(ctx, fact, actorID, post.ID)
		if err != nil {
			return err
		}
		if !active || kind == "" {
			return nil
		}
		notifications := NewNotificationService(
			repository.NewNotificationRepository(tx),
			repository.NewUserRepository(tx),
		)
		return notifications.Emit(ctx, post.UserID, actorID, kind, NotificationRef{PostID: &post.ID})
	})
	if err != nil {
		return nil, err
	}
	return s.result(ctx, fact, post.ID, active)
}

func (s *EngagementService) result(ctx context.Context, fact repository.Fact, subjectID uint, active bool) (*ToggleResult, error) {
	count, err := s.engagementRepo.Count(ctx, fact, subjectID)
	if err != nil {
		return nil, err
	}
	state := "off"
	if active {
		state = "on"
	}
	observability.EngagementToggles.WithLabelValues(string(fact), state).Inc()
	return &ToggleResult{Active: active, Count: count}, nil
}

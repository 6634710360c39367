package service

import (
	"context"

	"azaunur/internal/models"
	"azaunur/internal/repository"

	"gorm.io/gorm"
)

// FollowListEntry is one row of a follower or following list, annotated with
// whether the viewer already follows that account.
type FollowListEntry struct {
	User              *models.User `json:"user"`
	ViewerIsFollowing bool         `json:"viewer_is_following"`
}

// FollowService maintains the follow graph and its notifications.
type FollowService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	visibility *VisibilityService
}

func NewFollowService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	visibility *VisibilityService,
) *FollowService {
	return &FollowService{
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		visibility: visibility,
	}
}

// ToggleFollow flips the follow edge toward the target. Activation notifies
// the followee; the edge and the notification commit together.
func (s *FollowService) ToggleFollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	visible, err := s.visibility.IsMutuallyVisible(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if !visible {
		return false, models.NewForbiddenError("You cannot follow this account")
	}

	following, err := s.followRepo.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if following {
		return false, s.followRepo.Unfollow(ctx, actorID, targetID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		created, err := repository.NewFollowRepository(tx).Follow(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if !created {
			// Lost a concurrent race; the edge exists, nothing to fan out.
			return nil
		}
		notifications := NewNotificationService(
			repository.NewNotificationRepository(tx),
			repository.NewUserRepository(tx),
		)
		return notifications.Emit(ctx, target.ID, actorID, models.NotificationFollow, NotificationRef{})
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Followers lists who follows the account, flagged with the viewer's own
// follow state per row.
func (s *FollowService) Followers(ctx context.Context, accountID, viewerID uint) ([]*FollowListEntry, error) {
	users, err := s.followRepo.Followers(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewerID)
}

// Following lists who the account follows.
func (s *FollowService) Following(ctx context.Context, accountID, viewerID uint) ([]*FollowListEntry, error) {
	users, err := s.followRepo.Following(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, users, viewerID)
}

func (s *FollowService) annotate(ctx context.Context, users []*models.User, viewerID uint) ([]*FollowListEntry, error) {
	viewerFollows, err := s.followRepo.Following(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[uint]struct{}, len(viewerFollows))
	for _, u := range viewerFollows {
		followed[u.ID] = struct{}{}
	}

	entries := make([]*FollowListEntry, 0, len(users))
	for _, u := range users {
		_, ok := followed[u.ID]
		entries = append(entries, &FollowListEntry{User: u, ViewerIsFollowing: ok})
	}
	return entries, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"azaunur/internal/cache"
	"azaunur/internal/markup"
	"azaunur/internal/middleware"
	"azaunur/internal/models"
	"azaunur/internal/repository"
)

// ProfileView is everything the profile page needs for one account as seen
// by a particular viewer.
type ProfileView struct {
	User        *models.User   `json:"user"`
	Posts       []*models.Post `json:"posts"`
	IsFollowing bool           `json:"is_following"`
	IsBlocking  bool           `json:"is_blocking"`
}

type UpdateSettingsInput struct {
	UserID uint
	Bio    string
	// Avatar is the raw upload; empty keeps the current avatar. An unusable
	// image keeps the current avatar instead of failing the save.
	Avatar []byte
}

type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	images     *ImageService
	visibility *VisibilityService
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	images *ImageService,
	visibility *VisibilityService,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		images:     images,
		visibility: visibility,
	}
}

// Profile assembles an account page for the viewer. Profiles hidden by a
// block in either direction are forbidden.
func (s *UserService) Profile(ctx context.Context, handle string, viewerID uint) (*ProfileView, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.ProfileKey(handle), &user, cache.ProfileTTL, func() error {
		fetched, err := s.userRepo.GetByHandle(ctx, handle)
		if err != nil {
			return err
		}
		user = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	visible, err := s.visibility.IsMutuallyVisible(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewForbiddenError("You cannot view this profile")
	}

	posts, err := s.postRepo.GetByUserID(ctx, user.ID, viewerID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.BodyHTML = markup.Linkify(p.Body)
	}

	isFollowing, err := s.followRepo.IsFollowing(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	isBlocking, err := s.blockRepo.IsBlocked(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		User:        user,
		Posts:       posts,
		IsFollowing: isFollowing,
		IsBlocking:  isBlocking,
	}, nil
}

// UpdateSettings saves bio and avatar changes.
func (s *UserService) UpdateSettings(ctx context.Context, in UpdateSettingsInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	user.Bio = strings.TrimSpace(in.Bio)
	if len(in.Avatar) > 0 {
		filename, err := s.images.SaveAvatar(in.Avatar)
		switch {
		case errors.Is(err, ErrImageUnusable):
			middleware.Logger.WarnContext(ctx, "dropping unusable avatar upload", "user_id", in.UserID)
		case err != nil:
			return nil, err
		default:
			user.Avatar = filename
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Handle)
	return user, nil
}

// ToggleBlock flips the actor's block on the target and reports the new
// state. Existing follow edges survive a block; content is hidden instead.
func (s *UserService) ToggleBlock(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, models.NewValidationError("You cannot block yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	blocking, err := s.blockRepo.IsBlocked(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if blocking {
		return false, s.blockRepo.Unblock(ctx, actorID, targetID)
	}
	if _, err := s.blockRepo.Block(ctx, actorID, targetID); err != nil {
		return false, err
	}
	return true, nil
}

// BlockedUsers lists the accounts the user has blocked.
func (s *UserService) BlockedUsers(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.blockRepo.BlockedUsers(ctx, userID)
}

// IsAdmin reports whether the account holds the admin flag. Services that
// need an authorization check take this as a function field.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	return s.userRepo.IsAdmin(ctx, userID)
}

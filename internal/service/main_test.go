package service

import (
	"testing"
	"time"

	"azaunur/internal/cache"
	"azaunur/internal/config"
	"azaunur/internal/database"
	"azaunur/internal/models"
	"azaunur/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires every service against one in-memory sqlite database, the
// same construction order the server uses.
type testEnv struct {
	db *gorm.DB

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	engagementRepo   repository.EngagementRepository
	notificationRepo repository.NotificationRepository

	visibility    *VisibilityService
	notifications *NotificationService
	engagement    *EngagementService
	feed          *FeedService
	posts         *PostService
	comments      *CommentService
	follows       *FollowService
	users         *UserService
	chat          *ChatService
	moderation    *ModerationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cache.SetClient(nil)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	moderationRepo := repository.NewModerationRepository(db)

	env := &testEnv{
		db:               db,
		userRepo:         userRepo,
		postRepo:         postRepo,
		engagementRepo:   engagementRepo,
		notificationRepo: notificationRepo,
	}

	images := NewImageService(&config.Config{MediaDir: t.TempDir()})
	env.visibility = NewVisibilityService(blockRepo)
	env.notifications = NewNotificationService(notificationRepo, userRepo)
	env.engagement = NewEngagementService(db, postRepo, commentRepo, engagementRepo)
	env.feed = NewFeedService(postRepo, userRepo, engagementRepo, env.visibility)
	env.users = NewUserService(userRepo, postRepo, followRepo, blockRepo, images, env.visibility)
	env.posts = NewPostService(db, postRepo, commentRepo, images, env.visibility, env.users.IsAdmin)
	env.comments = NewCommentService(db, postRepo, commentRepo, env.users.IsAdmin)
	env.follows = NewFollowService(db, userRepo, followRepo, env.visibility)
	env.chat = NewChatService(userRepo, messageRepo, env.visibility)
	env.moderation = NewModerationService(db, userRepo, moderationRepo)

	return env
}

func (e *testEnv) user(t *testing.T, handle string) *models.User {
	t.Helper()
	u := &models.User{
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: "hash",
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) post(t *testing.T, userID uint, body string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: userID, Body: body}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) block(t *testing.T, blockerID, blockedID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
	}).Error)
}

// postAt backdates a post so ordering tests control the timeline.
func (e *testEnv) postAt(t *testing.T, userID uint, body string, at time.Time) *models.Post {
	t.Helper()
	p := e.post(t, userID, body)
	require.NoError(t, e.db.Model(p).Update("created_at", at).Error)
	p.CreatedAt = at
	return p
}

func (e *testEnv) notificationCount(t *testing.T, userID uint, kind models.NotificationKind) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&count).Error)
	return count
}

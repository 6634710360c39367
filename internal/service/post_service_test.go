package service

import (
	"context"
	"testing"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	writer := env.user(t, "writer")
	friend := env.user(t, "friend")

	t.Run("mentions fan out", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			UserID: writer.ID,
			Body:   "shoutout to @friend",
		})
		require.NoError(t, err)
		assert.NotZero(t, post.ID)
		assert.Contains(t, post.BodyHTML, `href="/u/friend"`)
		assert.Equal(t, int64(1), env.notificationCount(t, friend.ID, models.NotificationMention))
	})

	t.Run("markup is escaped before linkifying", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			UserID: writer.ID,
			Body:   "<script>alert(1)</script> #xss",
		})
		require.NoError(t, err)
		assert.NotContains(t, post.BodyHTML, "<script>")
		assert.Contains(t, post.BodyHTML, "&lt;script&gt;")
		assert.Contains(t, post.BodyHTML, `href="/tag/xss"`)
	})

	t.Run("unusable image degrades to text-only", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{
			UserID: writer.ID,
			Body:   "picture day",
			Image:  []byte("not an image"),
		})
		require.NoError(t, err)
		assert.Empty(t, post.Image)
	})

	t.Run("blank body is rejected", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{
			UserID: writer.ID,
			Body:   "  \n ",
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})
}

func TestDeletePost_CascadesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	fan := env.user(t, "fan")
	post := env.post(t, author.ID, "doomed")
	survivor := env.post(t, author.ID, "survivor")

	// Engagement and fan-out tied to the doomed post.
	_, err := env.engagement.TogglePostLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		UserID: fan.ID,
		PostID: post.ID,
		Body:   "rip",
	})
	require.NoError(t, err)
	_, err = env.engagement.ToggleCommentLike(ctx, author.ID, comment.ID)
	require.NoError(t, err)

	// An unrelated notification that must survive the cascade.
	require.NoError(t, env.notifications.Emit(ctx, author.ID, fan.ID,
		models.NotificationFollow, NotificationRef{}))

	require.NoError(t, env.posts.DeletePost(ctx, author.ID, post.ID))

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"posts", &models.Post{}},
		{"comments", &models.Comment{}},
		{"post likes", &models.PostLike{}},
		{"comment likes", &models.CommentLike{}},
	} {
		var count int64
		require.NoError(t, env.db.Model(probe.model).Count(&count).Error)
		if probe.name == "posts" {
			assert.Equal(t, int64(1), count, probe.name)
		} else {
			assert.Equal(t, int64(0), count, probe.name)
		}
	}

	// Notifications referencing the deleted post are gone; the follow
	// notification stays.
	var kinds []string
	require.NoError(t, env.db.Model(&models.Notification{}).Pluck("kind", &kinds).Error)
	assert.Equal(t, []string{string(models.NotificationFollow)}, kinds)

	var stillThere models.Post
	require.NoError(t, env.db.First(&stillThere, survivor.ID).Error)
}

func TestDeletePost_Authorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	stranger := env.user(t, "stranger")
	admin := env.user(t, "moderator")
	require.NoError(t, env.db.Model(admin).Update("is_admin", true).Error)

	post := env.post(t, author.ID, "contested")

	err := env.posts.DeletePost(ctx, stranger.ID, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	require.NoError(t, env.posts.DeletePost(ctx, admin.ID, post.ID))
}

func TestUpdatePost_OwnerOnlyEvenForAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	admin := env.user(t, "moderator")
	require.NoError(t, env.db.Model(admin).Update("is_admin", true).Error)

	post := env.post(t, author.ID, "my words")

	_, err := env.posts.UpdatePost(ctx, UpdatePostInput{
		UserID: admin.ID,
		PostID: post.ID,
		Body:   "rewritten",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	updated, err := env.posts.UpdatePost(ctx, UpdatePostInput{
		UserID: author.ID,
		PostID: post.ID,
		Body:   "my edited words",
	})
	require.NoError(t, err)
	assert.Equal(t, "my edited words", updated.Body)
	assert.NotNil(t, updated.EditedAt)
}

func TestGetPost_BlockedViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	outcast := env.user(t, "outcast")
	post := env.post(t, author.ID, "private-ish")
	env.block(t, author.ID, outcast.ID)

	_, _, err := env.posts.GetPost(ctx, post.ID, outcast.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestUserPosts_BlockedViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	outcast := env.user(t, "outcast")
	reader := env.user(t, "reader")
	env.post(t, author.ID, "for friendly eyes")
	env.block(t, author.ID, outcast.ID)

	t.Run("blocked viewer cannot list", func(t *testing.T) {
		_, err := env.posts.UserPosts(ctx, author.ID, outcast.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeForbidden, appErr.Code)
	})

	t.Run("blocker cannot list either", func(t *testing.T) {
		_, err := env.posts.UserPosts(ctx, outcast.ID, author.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeForbidden, appErr.Code)
	})

	t.Run("unblocked viewer sees the posts", func(t *testing.T) {
		posts, err := env.posts.UserPosts(ctx, author.ID, reader.ID)
		require.NoError(t, err)
		require.Len(t, posts, 1)
	})
}

func TestCreateComment_NotifiesAuthorAndMentions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	commenter := env.user(t, "commenter")
	mentioned := env.user(t, "mentioned")
	post := env.post(t, author.ID, "prompt")

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		UserID: commenter.ID,
		PostID: post.ID,
		Body:   "agree with @mentioned",
	})
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	assert.Equal(t, int64(1), env.notificationCount(t, author.ID, models.NotificationComment))
	assert.Equal(t, int64(1), env.notificationCount(t, mentioned.ID, models.NotificationMention))
}

func TestDeleteComment_AdminOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.user(t, "author")
	commenter := env.user(t, "commenter")
	admin := env.user(t, "moderator")
	require.NoError(t, env.db.Model(admin).Update("is_admin", true).Error)

	post := env.post(t, author.ID, "thread")
	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		UserID: commenter.ID,
		PostID: post.ID,
		Body:   "offensive",
	})
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(ctx, admin.ID, comment.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

package repository

import (
	"context"
	"testing"
	"time"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListForFeed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	engagements := NewEngagementRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	older := &models.Post{UserID: alice.ID, Body: "first", CreatedAt: time.Now().Add(-2 * time.Hour)}
	newer := &models.Post{UserID: bob.ID, Body: "second", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	_, err := engagements.Toggle(ctx, FactPostLike, alice.ID, newer.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Comment{PostID: newer.ID, UserID: alice.ID, Body: "nice"}).Error)

	t.Run("newest first with details for the viewer", func(t *testing.T) {
		posts, err := repo.ListForFeed(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		assert.Equal(t, "second", posts[0].Body)
		assert.Equal(t, "first", posts[1].Body)

		assert.Equal(t, int64(1), posts[0].LikesCount)
		assert.Equal(t, int64(1), posts[0].CommentsCount)
		assert.True(t, posts[0].Liked)
		assert.Equal(t, "bob", posts[0].User.Handle)
	})

	t.Run("another viewer sees counts but not the flag", func(t *testing.T) {
		posts, err := repo.ListForFeed(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), posts[0].LikesCount)
		assert.False(t, posts[0].Liked)
	})
}

func TestPostRepository_SearchTag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	muted := createTestUser(t, db, "muted")

	createTestPost(t, db, alice.ID, "checking out #golang today")
	createTestPost(t, db, bob.ID, "more #golang notes")
	createTestPost(t, db, muted.ID, "spam about #golang")
	createTestPost(t, db, alice.ID, "unrelated post")

	t.Run("matches only tagged posts", func(t *testing.T) {
		posts, err := repo.SearchTag(ctx, "golang", alice.ID, nil, 50)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("excluded authors are filtered before the limit", func(t *testing.T) {
		posts, err := repo.SearchTag(ctx, "golang", alice.ID, []uint{muted.ID}, 2)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		for _, p := range posts {
			assert.NotEqual(t, muted.ID, p.UserID)
		}
	})
}

func TestPostRepository_ListSaved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	engagements := NewEngagementRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	p1 := createTestPost(t, db, bob.ID, "one")
	p2 := createTestPost(t, db, bob.ID, "two")

	_, err := engagements.Toggle(ctx, FactSave, alice.ID, p1.ID)
	require.NoError(t, err)
	_, err = engagements.Toggle(ctx, FactSave, alice.ID, p2.ID)
	require.NoError(t, err)

	posts, err := repo.ListSaved(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.True(t, p.Saved)
	}

	empty, err := repo.ListSaved(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepository_DeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	engagements := NewEngagementRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "doomed")
	other := createTestPost(t, db, alice.ID, "survivor")

	comment := &models.Comment{PostID: post.ID, UserID: bob.ID, Body: "reply"}
	require.NoError(t, db.Create(comment).Error)
	require.NoError(t, db.Create(&models.CommentLike{UserID: alice.ID, CommentID: comment.ID}).Error)
	for _, fact := range []Fact{FactPostLike, FactRepost, FactSave} {
		_, err := engagements.Toggle(ctx, fact, bob.ID, post.ID)
		require.NoError(t, err)
	}
	require.NoError(t, engagements.MarkViews(ctx, bob.ID, []uint{post.ID, other.ID}))

	require.NoError(t, repo.DeleteCascade(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID, bob.ID)
	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	for _, m := range []any{&models.Comment{}, &models.CommentLike{}, &models.PostLike{}, &models.Repost{}, &models.SavedPost{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	// Views of other posts survive.
	var viewCount int64
	require.NoError(t, db.Model(&models.PostView{}).Count(&viewCount).Error)
	assert.Equal(t, int64(1), viewCount)

	survivor, err := repo.GetByID(ctx, other.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "survivor", survivor.Body)
}

package server

import (
	"net/http"
	"testing"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetPost(t *testing.T) {
	s, db := newTestServer(t)
	author := createHandlerTestUser(t, db, "author")
	commenter := createHandlerTestUser(t, db, "commenter")

	app := authedApp(author.ID)
	app.Post("/posts", s.CreatePost)
	app.Get("/posts/:id", s.GetPost)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/posts", map[string]string{
		"body": "hello #world",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, "hello #world", created["body"])

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	require.NoError(t, db.Create(&models.Comment{
		UserID: commenter.ID,
		PostID: post.ID,
		Body:   "first",
	}).Error)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/posts/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.NotNil(t, body["post"])
	comments, ok := body["comments"].([]any)
	require.True(t, ok)
	assert.Len(t, comments, 1)

	// Opening the post records a view for the author.
	var views int64
	require.NoError(t, db.Model(&models.PostView{}).
		Where("user_id = ? AND post_id = ?", author.ID, post.ID).
		Count(&views).Error)
	assert.Equal(t, int64(1), views)
}

func TestCreatePost_EmptyBody(t *testing.T) {
	s, db := newTestServer(t)
	author := createHandlerTestUser(t, db, "author")

	app := authedApp(author.ID)
	app.Post("/posts", s.CreatePost)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/posts", map[string]string{
		"body": "   ",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	s, db := newTestServer(t)
	author := createHandlerTestUser(t, db, "author")
	other := createHandlerTestUser(t, db, "other")
	post := createHandlerTestPost(t, db, author.ID, "original")

	otherApp := authedApp(other.ID)
	otherApp.Put("/posts/:id", s.UpdatePost)
	resp, err := otherApp.Test(jsonRequest(t, http.MethodPut, "/posts/1", map[string]string{
		"body": "hijacked",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ownerApp := authedApp(author.ID)
	ownerApp.Put("/posts/:id", s.UpdatePost)
	resp, err = ownerApp.Test(jsonRequest(t, http.MethodPut, "/posts/1", map[string]string{
		"body": "edited",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved models.Post
	require.NoError(t, db.First(&saved, post.ID).Error)
	assert.Equal(t, "edited", saved.Body)
	assert.NotNil(t, saved.EditedAt)
}

func TestDeletePost_AdminOverride(t *testing.T) {
	s, db := newTestServer(t)
	author := createHandlerTestUser(t, db, "author")
	admin := createHandlerTestUser(t, db, "moderator")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)
	post := createHandlerTestPost(t, db, author.ID, "to be removed")

	app := authedApp(admin.ID)
	app.Delete("/posts/:id", s.DeletePost)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/posts/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFeedFiltersBlockedAuthors(t *testing.T) {
	s, db := newTestServer(t)
	viewer := createHandlerTestUser(t, db, "viewer")
	friend := createHandlerTestUser(t, db, "friend")
	enemy := createHandlerTestUser(t, db, "enemy")

	createHandlerTestPost(t, db, friend.ID, "visible")
	createHandlerTestPost(t, db, enemy.ID, "hidden")
	require.NoError(t, db.Create(&models.Block{BlockerID: viewer.ID, BlockedID: enemy.ID}).Error)

	app := authedApp(viewer.ID)
	app.Get("/feed", s.GetFeed)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/feed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	post, ok := first["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "visible", post["body"])
}

func TestLikeToggleRoundTrip(t *testing.T) {
	s, db := newTestServer(t)
	author := createHandlerTestUser(t, db, "author")
	fan := createHandlerTestUser(t, db, "fan")
	createHandlerTestPost(t, db, author.ID, "likeable")

	app := authedApp(fan.ID)
	app.Post("/posts/:id/like", s.LikePost)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/posts/1/like", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["active"])
	assert.Equal(t, float64(1), body["count"])

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/posts/1/like", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["active"])
	assert.Equal(t, float64(0), body["count"])
}

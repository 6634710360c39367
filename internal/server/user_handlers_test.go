package server

import (
	"net/http"
	"testing"
	"time"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	s, db := newTestServer(t)
	viewer := createHandlerTestUser(t, db, "viewer")
	subject := createHandlerTestUser(t, db, "subject")
	createHandlerTestPost(t, db, subject.ID, "a post")

	app := authedApp(viewer.ID)
	app.Get("/users/:handle", s.GetProfile)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/users/subject", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "subject", user["handle"])
	posts, ok := body["posts"].([]any)
	require.True(t, ok)
	assert.Len(t, posts, 1)

	t.Run("hidden when blocked either way", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Block{BlockerID: subject.ID, BlockedID: viewer.ID}).Error)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/users/subject", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown handle is 404", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/users/nobody", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestToggleFollow(t *testing.T) {
	s, db := newTestServer(t)
	follower := createHandlerTestUser(t, db, "follower")
	followee := createHandlerTestUser(t, db, "followee")

	app := authedApp(follower.ID)
	app.Post("/users/:id/follow", s.ToggleFollow)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/users/2/follow", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["following"])

	// The followee is notified.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", followee.ID, models.NotificationFollow).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/users/2/follow", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["following"])

	t.Run("cannot follow yourself", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/users/1/follow", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestToggleBlock_KeepsFollows(t *testing.T) {
	s, db := newTestServer(t)
	blocker := createHandlerTestUser(t, db, "blocker")
	target := createHandlerTestUser(t, db, "target")
	require.NoError(t, db.Create(&models.Follow{FollowerID: blocker.ID, FolloweeID: target.ID}).Error)

	app := authedApp(blocker.ID)
	app.Post("/users/:id/block", s.ToggleBlock)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/users/2/block", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["blocking"])

	// Blocking hides content but leaves the follow edge in place, so an
	// unblock restores the old relationship.
	var follows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", blocker.ID, target.ID).
		Count(&follows).Error)
	assert.Equal(t, int64(1), follows)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/users/2/block", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["blocking"])
}

func TestActiveRequired(t *testing.T) {
	s, db := newTestServer(t)
	user := createHandlerTestUser(t, db, "citizen")

	app := authedApp(user.ID)
	app.Use(s.ActiveRequired)
	app.Get("/feed", s.GetFeed)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/feed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	until := time.Now().Add(2 * time.Hour)
	require.NoError(t, db.Model(user).Update("banned_until", &until).Error)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/feed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

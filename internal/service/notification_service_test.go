package service

import (
	"context"
	"testing"

	"azaunur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyMentions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	writer := env.user(t, "writer")
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, writer.ID, "irrelevant")
	ref := NotificationRef{PostID: &post.ID}

	t.Run("each mentioned account is notified once", func(t *testing.T) {
		err := env.notifications.NotifyMentions(ctx, writer.ID, "cc @alice and @bob and @alice again", ref)
		require.NoError(t, err)

		assert.Equal(t, int64(1), env.notificationCount(t, alice.ID, models.NotificationMention))
		assert.Equal(t, int64(1), env.notificationCount(t, bob.ID, models.NotificationMention))
	})

	t.Run("unknown handles are skipped", func(t *testing.T) {
		err := env.notifications.NotifyMentions(ctx, writer.ID, "hello @ghost", ref)
		require.NoError(t, err)

		var count int64
		require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("self mention is suppressed", func(t *testing.T) {
		err := env.notifications.NotifyMentions(ctx, writer.ID, "note to @writer", ref)
		require.NoError(t, err)
		assert.Equal(t, int64(0), env.notificationCount(t, writer.ID, models.NotificationMention))
	})
}

func TestListAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recipient := env.user(t, "recipient")
	actor := env.user(t, "actor")
	post := env.post(t, actor.ID, "source")

	require.NoError(t, env.notifications.Emit(ctx, recipient.ID, actor.ID,
		models.NotificationLike, NotificationRef{PostID: &post.ID}))
	require.NoError(t, env.notifications.Emit(ctx, recipient.ID, actor.ID,
		models.NotificationFollow, NotificationRef{}))

	unread, err := env.notifications.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	list, err := env.notifications.ListAndMarkRead(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].FromUser)
	assert.Equal(t, "actor", list[0].FromUser.Handle)

	unread, err = env.notifications.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestEmit_SelfSuppressed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.user(t, "loner")
	require.NoError(t, env.notifications.Emit(ctx, user.ID, user.ID,
		models.NotificationLike, NotificationRef{}))

	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

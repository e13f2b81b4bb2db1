package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mehrap673/WellBud/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("records both sides of the exchange", func(t *testing.T) {
		db := newTestDB(t)
		u := seedUser(t, db, "Maya", "maya@example.com")
		svc := NewChatService(db, fakeGemini(t, http.StatusOK, "Health Mate: Great job on your streak!"))

		reply, err := svc.SendMessage(ctx, u.ID, "How am I doing?")
		require.NoError(t, err)
		assert.Equal(t, "Great job on your streak!", reply)

		msgs, err := svc.History(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, models.SenderUser, msgs[0].Sender)
		assert.Equal(t, "How am I doing?", msgs[0].Content)
		assert.Equal(t, models.SenderAI, msgs[1].Sender)
		assert.Equal(t, "Great job on your streak!", msgs[1].Content)
	})

	t.Run("upstream failure degrades to the canned reply", func(t *testing.T) {
		db := newTestDB(t)
		u := seedUser(t, db, "Maya", "maya@example.com")
		svc := NewChatService(db, fakeGemini(t, http.StatusTooManyRequests, ""))

		reply, err := svc.SendMessage(ctx, u.ID, "hello?")
		require.NoError(t, err)
		assert.Equal(t, chatFallbackReply, reply)

		// The transcript still gains both rows.
		msgs, err := svc.History(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, msgs, 2)
	})

	t.Run("transcript is capped FIFO", func(t *testing.T) {
		db := newTestDB(t)
		u := seedUser(t, db, "Maya", "maya@example.com")
		svc := NewChatService(db, offlineGemini())

		base := time.Now().Add(-time.Hour)
		for i := 0; i < models.MaxChatMessages; i++ {
			require.NoError(t, db.Create(&models.ChatMessage{
				UserID:    u.ID,
				Sender:    models.SenderUser,
				Content:   fmt.Sprintf("old-%d", i),
				Timestamp: base.Add(time.Duration(i) * time.Second),
			}).Error)
		}

		_, err := svc.SendMessage(ctx, u.ID, "newest")
		require.NoError(t, err)

		msgs, err := svc.History(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, msgs, models.MaxChatMessages)

		// The two oldest rows were evicted; the new exchange survives.
		assert.Equal(t, "old-2", msgs[0].Content)
		assert.Equal(t, "newest", msgs[len(msgs)-2].Content)
		assert.Equal(t, chatFallbackReply, msgs[len(msgs)-1].Content)
	})
}

func TestChatHistoryLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := seedUser(t, db, "Maya", "maya@example.com")
	other := seedUser(t, db, "Noor", "noor@example.com")
	svc := NewChatService(db, offlineGemini())

	_, err := svc.SendMessage(ctx, u.ID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, other.ID, "theirs")
	require.NoError(t, err)

	t.Run("history is tenant-scoped and chronological", func(t *testing.T) {
		msgs, err := svc.History(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "first", msgs[0].Content)
		for _, m := range msgs {
			assert.Equal(t, u.ID, m.UserID)
		}
	})

	t.Run("clear only wipes the caller", func(t *testing.T) {
		require.NoError(t, svc.ClearHistory(ctx, u.ID))

		mine, err := svc.History(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, mine)

		theirs, err := svc.History(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, theirs, 2)
	})
}

func TestChatPromptContext(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	u := seedUser(t, db, "Maya", "maya@example.com")
	svc := NewChatService(db, offlineGemini())

	seedLog(t, db, u.ID, models.CategorySleep, time.Now().AddDate(0, 0, -1), `{"hours":7.5,"quality":4}`)
	require.NoError(t, db.Create(&models.ChatMessage{
		UserID: u.ID, Sender: models.SenderUser, Content: "earlier question", Timestamp: time.Now().Add(-time.Minute),
	}).Error)

	prompt := svc.chatPrompt(ctx, u.ID, "should I nap?")
	assert.Contains(t, prompt, "avg 7.5 hours")
	assert.Contains(t, prompt, "earlier question")
	assert.Contains(t, prompt, "should I nap?")
}

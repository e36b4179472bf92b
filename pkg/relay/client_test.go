package relay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a test client connected to a miniredis instance
func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func testView() MessageView {
	return MessageView{
		Title:       "End of Day Report",
		Author:      "alice",
		Description: "📆 **Oct 16, 2026 (Friday)**",
		Color:       0xFFB6C1,
		Buttons: []ButtonView{
			{Button: "in", Label: "🟢 In", Style: "success", Enabled: true},
			{Button: "reset", Label: "🔄 Reset", Style: "danger", Enabled: false},
		},
	}
}

func TestNewClient(t *testing.T) {
	t.Run("creates client successfully", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.NotNil(t, client)
		assert.Equal(t, "test-instance", client.InstanceName())
	})

	t.Run("rejects empty instance name", func(t *testing.T) {
		_, err := NewClient(&redis.Options{Addr: "localhost:6379"}, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "instance name cannot be empty")
	})

	t.Run("from URL", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewClientFromURL("redis://"+mr.Addr(), "url-instance")
		require.NoError(t, err)
		defer client.Close()
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("rejects bad URL", func(t *testing.T) {
		_, err := NewClientFromURL("http://nope", "x")
		assert.Error(t, err)
	})
}

func TestPing(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	assert.NoError(t, client.Ping(ctx))

	mr.Close()
	assert.Error(t, client.Ping(ctx))
}

func TestMessages(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		m := &Message{
			ID:          uuid.New().String(),
			ChannelID:   "chan",
			OwnerID:     "alice",
			View:        testView(),
			UpdatedAtMs: 1760600000000,
		}
		require.NoError(t, client.PutMessage(ctx, m))

		got, err := client.GetMessage(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m, got)

		exists, err := client.MessageExists(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("put overwrites view", func(t *testing.T) {
		m := &Message{ID: uuid.New().String(), ChannelID: "chan", View: testView()}
		require.NoError(t, client.PutMessage(ctx, m))

		m.View.Description = "updated"
		m.View.Buttons = nil
		require.NoError(t, client.PutMessage(ctx, m))

		got, err := client.GetMessage(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "updated", got.View.Description)
		assert.Empty(t, got.View.Buttons)
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := client.GetMessage(ctx, uuid.New().String())
		assert.True(t, IsNotFound(err))

		exists, err := client.MessageExists(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects invalid message", func(t *testing.T) {
		err := client.PutMessage(ctx, &Message{ID: "not-a-uuid", ChannelID: "chan"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid message")
	})
}

func TestButtonEvents(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	sub, err := client.SubscribeButtonEvents(ctx)
	require.NoError(t, err)
	defer sub.Close()

	ev := &ButtonEvent{
		ID:        uuid.New().String(),
		ChannelID: "chan",
		MessageID: uuid.New().String(),
		Button:    "lunch",
		ActorID:   "alice",
		ActorName: "Alice",
		OwnerID:   "alice",
	}
	require.NoError(t, client.PublishButtonEvent(ctx, ev))

	select {
	case got := <-sub.Events():
		assert.Equal(t, ev, got)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for button event")
	}

	t.Run("rejects invalid event", func(t *testing.T) {
		err := client.PublishButtonEvent(ctx, &ButtonEvent{ID: uuid.New().String()})
		assert.Error(t, err)
	})
}

func TestStartEvents(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	sub, err := client.SubscribeStartEvents(ctx)
	require.NoError(t, err)
	defer sub.Close()

	ev := &StartEvent{ID: uuid.New().String(), UserID: "alice", DisplayName: "Alice", ChannelID: "chan"}
	require.NoError(t, client.PublishStartEvent(ctx, ev))

	select {
	case got := <-sub.Events():
		assert.Equal(t, ev, got)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for start event")
	}
}

func TestEffects(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	sub, err := client.SubscribeEffects(ctx)
	require.NoError(t, err)
	defer sub.Close()

	view := testView()
	eff := &Effect{
		ID:        uuid.New().String(),
		EventID:   uuid.New().String(),
		Type:      EffectSendMessage,
		ChannelID: "chan",
		MessageID: uuid.New().String(),
		View:      &view,
	}
	require.NoError(t, client.PublishEffect(ctx, eff))

	select {
	case got := <-sub.Events():
		assert.Equal(t, eff, got)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for effect")
	}
}

func TestSubscriptionSkipsUndecodableMessages(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	sub, err := client.SubscribeStartEvents(ctx)
	require.NoError(t, err)
	defer sub.Close()

	mr.Publish(StartEventsChannel("test-instance"), "not json")

	select {
	case err := <-sub.Errors():
		assert.Contains(t, err.Error(), "failed to unmarshal start event")
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for decode error")
	}

	ev := &StartEvent{ID: uuid.New().String(), UserID: "bob", ChannelID: "chan"}
	require.NoError(t, client.PublishStartEvent(ctx, ev))

	select {
	case got := <-sub.Events():
		assert.Equal(t, "bob", got.UserID)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for start event after decode error")
	}
}

func TestSubscriptionClose(t *testing.T) {
	client, _ := setupTestClient(t)

	sub, err := client.SubscribeEffects(context.Background())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(1 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestInstanceNamespacing(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	defer mr.Close()

	client1, err := NewClient(&redis.Options{Addr: mr.Addr()}, "instance-1")
	require.NoError(t, err)
	defer client1.Close()

	client2, err := NewClient(&redis.Options{Addr: mr.Addr()}, "instance-2")
	require.NoError(t, err)
	defer client2.Close()

	ctx := context.Background()

	t.Run("messages are instance-isolated", func(t *testing.T) {
		m := &Message{ID: uuid.New().String(), ChannelID: "chan", View: testView()}
		require.NoError(t, client1.PutMessage(ctx, m))

		exists, err := client1.MessageExists(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = client2.MessageExists(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("events are instance-isolated", func(t *testing.T) {
		sub1, err := client1.SubscribeStartEvents(ctx)
		require.NoError(t, err)
		defer sub1.Close()

		sub2, err := client2.SubscribeStartEvents(ctx)
		require.NoError(t, err)
		defer sub2.Close()

		ev := &StartEvent{ID: uuid.New().String(), UserID: "alice", ChannelID: "chan"}
		require.NoError(t, client1.PublishStartEvent(ctx, ev))

		select {
		case received := <-sub1.Events():
			assert.Equal(t, ev.ID, received.ID)
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for instance-1 event")
		}

		select {
		case <-sub2.Events():
			t.Fatal("instance-2 should not receive event from instance-1")
		case <-time.After(500 * time.Millisecond):
		}
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(redis.Nil))
	assert.False(t, IsNotFound(context.Canceled))
	assert.False(t, IsNotFound(nil))
}

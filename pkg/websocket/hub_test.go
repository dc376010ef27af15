package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_SendMessageToUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	alice := NewClient(hub, nil, 1)
	aliceTab := NewClient(hub, nil, 1)
	bob := NewClient(hub, nil, 2)
	hub.Register(alice)
	hub.Register(aliceTab)
	hub.Register(bob)

	require.Eventually(t, func() bool { return hub.ConnectedClients(1) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendMessageToUser(1, NotificationPayload{ID: 5, Title: "MRF approved"}, MessageTypeNotification))

	for _, c := range []*Client{alice, aliceTab} {
		select {
		case raw := <-c.Send:
			var env struct {
				Type    string              `json:"type"`
				Payload NotificationPayload `json:"payload"`
			}
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, MessageTypeNotification, env.Type)
			assert.Equal(t, uint64(5), env.Payload.ID)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}

	select {
	case <-bob.Send:
		t.Fatal("other users must not receive the message")
	default:
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	c := NewClient(hub, nil, 9)
	hub.Register(c)
	hub.leave(c)

	require.Eventually(t, func() bool { return hub.ConnectedClients(9) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	connected := NewClient(hub, nil, 4)
	require.True(t, hub.Register(connected))
	require.Eventually(t, func() bool { return hub.ConnectedClients(4) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
	assert.Zero(t, hub.ConnectedClients(4))
	_, open := <-connected.Send
	assert.False(t, open)

	returned := make(chan bool)
	go func() {
		hub.leave(connected)
		returned <- hub.Register(NewClient(hub, nil, 5))
	}()
	select {
	case ok := <-returned:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("register or leave blocked on a stopped hub")
	}
	assert.Zero(t, hub.ConnectedClients(5))
}

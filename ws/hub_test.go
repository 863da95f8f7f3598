package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestHub_SendToUserReachesEveryConnection(t *testing.T) {
	hub := startHub(t)

	first := &Client{UserID: "u1", Send: make(chan []byte, 4), hub: hub}
	second := &Client{UserID: "u1", Send: make(chan []byte, 4), hub: hub}
	other := &Client{UserID: "u2", Send: make(chan []byte, 4), hub: hub}
	for _, c := range []*Client{first, second, other} {
		require.True(t, hub.Register(c))
	}
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.SendToUser(context.Background(), "u1", "application.status_changed", map[string]string{"status": "ACCEPTED"}))

	for _, c := range []*Client{first, second} {
		select {
		case raw := <-c.Send:
			var msg Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "application.status_changed", msg.Event)
			assert.JSONEq(t, `{"status":"ACCEPTED"}`, string(msg.Data))
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	assert.Empty(t, other.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := &Client{UserID: "u1", Send: make(chan []byte, 1), hub: hub}
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	require.Eventually(t, func() bool { return !hub.IsUserConnected("u1") }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHub_OfflineUserIsNotAnError(t *testing.T) {
	hub := startHub(t)
	assert.NoError(t, hub.SendToUser(context.Background(), "nobody", "ping", nil))
}

func TestWebSocketHandler_PushOverConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	h := NewWebSocketHandler(hub, nil)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { h.ServeWS(c, "u1") })
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsUserConnected("u1") }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.SendToUser(context.Background(), "u1", "application.status_changed", map[string]string{"applicationId": "a1"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "application.status_changed", msg.Event)
	assert.JSONEq(t, `{"applicationId":"a1"}`, string(msg.Data))
}

package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(f.e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	var msg WSMessage
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestWebSocketPingPong(t *testing.T) {
	f := newFixture(t)
	ws := dialWS(t, f)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePing}))
	msg := readMessage(t, ws)
	assert.Equal(t, MsgTypePong, msg.Type)
	assert.NotZero(t, msg.Timestamp)
}

func TestWebSocketBatchProgressBroadcast(t *testing.T) {
	f := newFixture(t)
	ws := dialWS(t, f)

	// Give the server a moment to register the connection with the hub.
	waitForClients(t, f.h.hub, 1)

	f.h.hub.BroadcastProgress(1, 3, "a.csv", nil)

	msg := readMessage(t, ws)
	require.Equal(t, MsgTypeBatchProgress, msg.Type)

	var payload BatchProgressPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, 1, payload.Done)
	assert.Equal(t, 3, payload.Total)
	assert.Equal(t, "a.csv", payload.Filename)
	assert.Empty(t, payload.Error)
}

func TestWebSocketSessionExpiredOnTeardown(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ws := dialWS(t, f)
	waitForClients(t, f.h.hub, 1)

	f.session.Expire()

	msg := readMessage(t, ws)
	assert.Equal(t, MsgTypeSessionExpired, msg.Type)
	assert.Nil(t, msg.Payload)
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		count := len(hub.clients)
		hub.mu.RUnlock()
		if count >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("websocket client never registered with the hub")
}

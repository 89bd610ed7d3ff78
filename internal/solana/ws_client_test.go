package solana

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscribeEchoServer upgrades, confirms the first logsSubscribe, then sends
// the given notifications and holds the connection open.
func subscribeEchoServer(t *testing.T, notifications []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
			return
		}
		if req.Method != "logsSubscribe" {
			t.Errorf("expected logsSubscribe, got %s", req.Method)
		}

		confirm, _ := json.Marshal(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  int64(4242),
		})
		if err := conn.WriteMessage(websocket.TextMessage, confirm); err != nil {
			return
		}

		for _, n := range notifications {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(n)); err != nil {
				return
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSClient_Connect(t *testing.T) {
	server := subscribeEchoServer(t, nil)
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	require.NoError(t, err)
	defer client.Close()

	assert.False(t, client.closed.Load())
}

func TestWSClient_Connect_Refused(t *testing.T) {
	_, err := NewWSClient(context.Background(), "ws://127.0.0.1:1", nil)
	require.Error(t, err)
}

func TestWSClient_SubscribeLogs_ReceivesNotification(t *testing.T) {
	notification := `{
		"jsonrpc": "2.0",
		"method": "logsNotification",
		"params": {
			"subscription": 4242,
			"result": {
				"context": {"slot": 100},
				"value": {
					"signature": "testsig",
					"err": null,
					"logs": ["Program log: swap"]
				}
			}
		}
	}`
	server := subscribeEchoServer(t, []string{notification})
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	require.NoError(t, err)
	defer client.Close()

	ch, err := client.SubscribeLogs(context.Background(), LogsFilter{Mentions: []string{"Mint1"}})
	require.NoError(t, err)

	select {
	case n := <-ch:
		assert.Equal(t, "testsig", n.Signature)
		assert.Equal(t, int64(100), n.Slot)
		assert.Equal(t, []string{"Program log: swap"}, n.Logs)
		assert.Nil(t, n.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestWSClient_SubscribeLogs_SecondSubscriptionRejected(t *testing.T) {
	server := subscribeEchoServer(t, nil)
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.SubscribeLogs(context.Background(), LogsFilter{Mentions: []string{"Mint1"}})
	require.NoError(t, err)

	_, err = client.SubscribeLogs(context.Background(), LogsFilter{Mentions: []string{"Mint2"}})
	require.Error(t, err)
}

func TestWSClient_ReconnectAndResubscribe(t *testing.T) {
	handler := func(notifications []string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()

			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				return
			}
			confirm, _ := json.Marshal(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  int64(7),
			})
			if err := conn.WriteMessage(websocket.TextMessage, confirm); err != nil {
				return
			}
			for _, n := range notifications {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(n)); err != nil {
					return
				}
			}
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		})
	}

	first := httptest.NewServer(handler(nil))
	addr := first.Listener.Addr().String()

	cfg := DefaultWSConfig()
	cfg.ReconnectDelay = 20 * time.Millisecond
	cfg.MaxReconnectDelay = 100 * time.Millisecond
	// first.Close() cannot sever the hijacked websocket connection, so a
	// short read timeout is what makes the client notice the dead server.
	cfg.ReadTimeout = 200 * time.Millisecond

	client, err := NewWSClient(context.Background(), "ws://"+addr, &cfg)
	require.NoError(t, err)
	defer client.Close()

	ch, err := client.SubscribeLogs(context.Background(), LogsFilter{Mentions: []string{"Mint1"}})
	require.NoError(t, err)

	// Kill the server: the connection drops and every redial is refused
	// until a replacement comes up on the same address.
	first.Close()
	time.Sleep(100 * time.Millisecond)

	listener, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	notification := `{
		"jsonrpc": "2.0",
		"method": "logsNotification",
		"params": {
			"subscription": 7,
			"result": {
				"context": {"slot": 200},
				"value": {"signature": "after-reconnect", "err": null, "logs": []}
			}
		}
	}`
	second := httptest.NewUnstartedServer(handler([]string{notification}))
	second.Listener.Close()
	second.Listener = listener
	second.Start()
	defer second.Close()

	// The original channel must survive the reconnect and carry the
	// notification from the resubscribed session.
	select {
	case n := <-ch:
		assert.Equal(t, "after-reconnect", n.Signature)
		assert.Equal(t, int64(200), n.Slot)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for post-reconnect notification")
	}
}

func TestWSClient_Close_ClosesChannel(t *testing.T) {
	server := subscribeEchoServer(t, nil)
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	require.NoError(t, err)

	ch, err := client.SubscribeLogs(context.Background(), LogsFilter{Mentions: []string{"Mint1"}})
	require.NoError(t, err)

	require.NoError(t, client.Close())

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	// Close is idempotent.
	require.NoError(t, client.Close())
}

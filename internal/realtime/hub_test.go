package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-api/internal/database"
	"voting-api/pkg/config"
)

type received struct {
	Type string                `json:"type"`
	Seq  uint64                `json:"seq"`
	Data []database.TallyEntry `json:"data"`
}

func startHub(t *testing.T) (*Hub, string, context.CancelFunc) {
	t.Helper()
	hub := NewHub(config.RealtimeConfig{PingInterval: time.Second, WriteTimeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, NewMessage(TypeTally, []database.TallyEntry{{Name: "Asha", Party: "Green", Count: 0}}))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg received
	require.NoError(t, json.Unmarshal(payload, &msg))
	return msg
}

func TestHubSendsInitialAndBroadcastTally(t *testing.T) {
	hub, url, _ := startHub(t)
	conn := dial(t, url)

	first := readMessage(t, conn)
	assert.Equal(t, TypeTally, first.Type)
	require.Len(t, first.Data, 1)
	assert.Equal(t, "Green", first.Data[0].Party)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PublishTally([]database.TallyEntry{{Name: "Asha", Party: "Green", Count: 3}})
	update := readMessage(t, conn)
	assert.Equal(t, TypeTally, update.Type)
	require.Len(t, update.Data, 1)
	assert.Equal(t, 3, update.Data[0].Count)
}

func TestHubNumbersTallyUpdatesInOrder(t *testing.T) {
	hub, url, _ := startHub(t)
	conn := dial(t, url)

	initial := readMessage(t, conn)
	assert.Zero(t, initial.Seq)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PublishTally([]database.TallyEntry{{Name: "Asha", Party: "Green", Count: 1}})
	hub.PublishTally([]database.TallyEntry{{Name: "Asha", Party: "Green", Count: 2}})

	first := readMessage(t, conn)
	second := readMessage(t, conn)
	assert.Equal(t, 1, first.Data[0].Count)
	assert.Equal(t, 2, second.Data[0].Count)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestHubAnswersPing(t *testing.T) {
	_, url, _ := startHub(t)
	conn := dial(t, url)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, TypePong, readMessage(t, conn).Type)
}

func TestHubForgetsDisconnectedClients(t *testing.T) {
	hub, url, _ := startHub(t)
	conn := dial(t, url)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, url, cancel := startHub(t)
	conn := dial(t, url)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(config.RealtimeConfig{}, nil)
	for i := 0; i < broadcastBuffer*2; i++ {
		hub.PublishTally(nil)
	}
}

package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-management-backend/models"
)

// dialPair upgrades one server-side connection into the hub and hands the
// client side back to the test.
func dialPair(t *testing.T, hub *Hub, userID, role string) (*websocket.Conn, *Client) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	registered := make(chan *Client, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		registered <- hub.Register(userID, role, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientConn.Close() })

	return clientConn, <-registered
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func Test_Hub_NotifyUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	memberConn, _ := dialPair(t, hub, "u1", models.RoleUser)
	otherConn, _ := dialPair(t, hub, "u2", models.RoleUser)

	hub.NotifyUser("u1", Event{Type: "request_resolved", Payload: map[string]string{"requestId": "r1"}})

	ev := readEvent(t, memberConn)
	assert.Equal(t, "request_resolved", ev.Type)
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", payload["requestId"])

	// u2 must not see u1's event
	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var stray Event
	assert.Error(t, otherConn.ReadJSON(&stray))
}

func Test_Hub_NotifyUser_AllConnectionsOfUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	first, _ := dialPair(t, hub, "u1", models.RoleUser)
	second, _ := dialPair(t, hub, "u1", models.RoleUser)

	hub.NotifyUser("u1", Event{Type: "request_resolved"})

	assert.Equal(t, "request_resolved", readEvent(t, first).Type)
	assert.Equal(t, "request_resolved", readEvent(t, second).Type)
}

func Test_Hub_BroadcastAdmins(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	adminConn, _ := dialPair(t, hub, "a1", models.RoleAdmin)
	memberConn, _ := dialPair(t, hub, "u1", models.RoleUser)

	hub.BroadcastAdmins(Event{Type: "request_submitted"})

	assert.Equal(t, "request_submitted", readEvent(t, adminConn).Type)

	require.NoError(t, memberConn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var stray Event
	assert.Error(t, memberConn.ReadJSON(&stray))
}

func Test_Hub_Unregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	conn, cl := dialPair(t, hub, "u1", models.RoleUser)
	hub.Unregister("u1", cl)

	// no panic and nothing delivered after unregister
	hub.NotifyUser("u1", Event{Type: "request_resolved"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	var stray Event
	assert.Error(t, conn.ReadJSON(&stray))

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.byUser)
}

package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialHub spins up a websocket server that registers the accepted connection
// under userID, and returns the client side.
func dialHub(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("connection was never registered")
	}
	return client
}

func TestPublish_ConcurrentNotificationsForOneUser(t *testing.T) {
	hub := NewHub()
	client := dialHub(t, hub, "host-1")

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			hub.Publish("host-1", Event{Type: "new_booking", CreatedAt: time.Now()})
		}()
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < n; i++ {
		var event Event
		require.NoError(t, client.ReadJSON(&event))
		assert.Equal(t, "new_booking", event.Type)
	}
	wg.Wait()
}

func TestPublish_UnknownUserIsNoOp(t *testing.T) {
	hub := NewHub()
	hub.Publish("nobody", Event{Type: "new_follower"})
}

func TestRegister_ReplacesPreviousConnection(t *testing.T) {
	hub := NewHub()
	old := dialHub(t, hub, "guest-1")
	fresh := dialHub(t, hub, "guest-1")

	hub.Publish("guest-1", Event{Type: "new_message"})

	fresh.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, fresh.ReadJSON(&event))
	assert.Equal(t, "new_message", event.Type)

	// The replaced connection was closed server-side; reading it fails.
	old.SetReadDeadline(time.Now().Add(2 * time.Second))
	assert.Error(t, old.ReadJSON(&event))
}

func TestUnregister_IgnoresStaleConnection(t *testing.T) {
	hub := NewHub()
	dialHub(t, hub, "guest-2")

	hub.mu.Lock()
	current := hub.clients["guest-2"]
	hub.mu.Unlock()
	require.NotNil(t, current)

	// A late Unregister from a connection that was already replaced must not
	// evict the current one.
	hub.Unregister("guest-2", &websocket.Conn{})

	hub.mu.Lock()
	still := hub.clients["guest-2"]
	hub.mu.Unlock()
	assert.Equal(t, current, still)
}

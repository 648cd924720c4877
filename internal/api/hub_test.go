package api_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	queue "github.com/shqio/shq"
)

func TestWebSocketStatusBroadcast(t *testing.T) {
	srv, _ := newTestServer(t)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/status"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var summary queue.StatusSummary
	require.NoError(t, conn.ReadJSON(&summary))
}

func TestWebSocketDisconnectIsHandled(t *testing.T) {
	srv, _ := newTestServer(t)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/status"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// The hub should not panic when a registered client disconnects
	// before the next broadcast tick; it should just drop it.
	time.Sleep(3 * time.Second)
}

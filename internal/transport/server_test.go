package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planner-server/internal/app"
	"planner-server/internal/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.App) {
	t.Helper()
	a := app.New(nil, nil)
	s := NewServer(a, zap.NewNop(), metrics.NewDisabled(), 16)
	httpSrv := httptest.NewServer(s.Handler())
	t.Cleanup(httpSrv.Close)
	return httpSrv, a
}

func wsURL(httpURL, path string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + path
}

func TestUpgradeJoinsRoomAndReceivesOnJoin(t *testing.T) {
	httpSrv, a := newTestServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(httpSrv.URL, "/?protocol=1&room=office&username=ada"), nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, "on_join", decoded["type"])
	elements, _ := decoded["elements"].([]any)
	require.Len(t, elements, 1)
	el, _ := elements[0].(map[string]any)
	assert.Equal(t, "Hello, world", el["content"])

	r, ok := a.GetRoom("office")
	require.True(t, ok)
	assert.Equal(t, 1, r.UserCount())
}

func TestUpgradeRejectsProtocolMismatchWithCloseCode(t *testing.T) {
	httpSrv, _ := newTestServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(httpSrv.URL, "/?protocol=2&room=office&username=ada"), nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok)
	assert.Equal(t, 4999, closeErr.Code)
}

func TestUpgradeRejectsMissingUpgradeHeadersWith400(t *testing.T) {
	httpSrv, _ := newTestServer(t)

	resp, err := httpSrv.Client().Get(httpSrv.URL + "/?protocol=1&room=office&username=ada")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)

	var decoded map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, "websocket_error", decoded["type"])
}

func TestCommandRoundTripBroadcastsSelectionToOtherUser(t *testing.T) {
	httpSrv, _ := newTestServer(t)

	adminConn, resp, err := websocket.DefaultDialer.Dial(wsURL(httpSrv.URL, "/?protocol=1&room=office&username=ada"), nil)
	require.NoError(t, err)
	defer adminConn.Close()
	defer resp.Body.Close()
	_, _, err = adminConn.ReadMessage()
	require.NoError(t, err)

	viewerConn, resp2, err := websocket.DefaultDialer.Dial(wsURL(httpSrv.URL, "/?protocol=1&room=office&username=bea"), nil)
	require.NoError(t, err)
	defer viewerConn.Close()
	defer resp2.Body.Close()
	_, _, err = viewerConn.ReadMessage()
	require.NoError(t, err)

	// admin should have observed bea's join broadcast.
	adminConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, joinMsg, err := adminConn.ReadMessage()
	require.NoError(t, err)
	var joinDecoded map[string]any
	require.NoError(t, json.Unmarshal(joinMsg, &joinDecoded))
	assert.Equal(t, "join", joinDecoded["type"])

	require.NoError(t, adminConn.WriteMessage(websocket.TextMessage, []byte(`{"type":"selection","elements":[]}`)))

	adminConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := adminConn.ReadMessage()
	require.NoError(t, err)
	var replyDecoded map[string]any
	require.NoError(t, json.Unmarshal(reply, &replyDecoded))
	assert.Equal(t, "selection_response", replyDecoded["type"])

	viewerConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, broadcast, err := viewerConn.ReadMessage()
	require.NoError(t, err)
	var broadcastDecoded map[string]any
	require.NoError(t, json.Unmarshal(broadcast, &broadcastDecoded))
	assert.Equal(t, "selection", broadcastDecoded["type"])
}

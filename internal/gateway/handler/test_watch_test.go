package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/dashboard"
	"boxoffice/internal/fetch"
	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/llmtool"
	"boxoffice/internal/normalize"
	"boxoffice/internal/types"
)

func newWatchServer(t *testing.T, client *llmclient.FakeClient) (*dashboard.Service, *websocket.Conn) {
	t.Helper()
	svc := dashboard.New(fetch.New(client, normalize.New(), llmtool.DefaultProfile()), dashboard.Options{})
	srv := httptest.NewServer(routes(NewDashboardHandler(svc, nil)))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return svc, conn
}

func readWatch(t *testing.T, conn *websocket.Conn) watchOutbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out watchOutbound
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

// readUntil skips messages until one matches.
func readUntil(t *testing.T, conn *websocket.Conn, match func(watchOutbound) bool) watchOutbound {
	t.Helper()
	for i := 0; i < 20; i++ {
		if out := readWatch(t, conn); match(out) {
			return out
		}
	}
	t.Fatal("expected message never arrived")
	return watchOutbound{}
}

func TestWatch_StreamsRefresh(t *testing.T) {
	_, conn := newWatchServer(t, llmclient.NewFakeClient())

	first := readWatch(t, conn)
	require.Equal(t, "status", first.Type)
	assert.Equal(t, types.FetchIdle, first.Status.State)

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "refresh"}))
	done := readUntil(t, conn, func(o watchOutbound) bool {
		return o.Type == "status" && o.Status.State == types.FetchSuccess
	})
	require.NotNil(t, done.Status.Snapshot)
	assert.Len(t, done.Status.Snapshot.Running, 2)
	assert.Len(t, done.Status.Snapshot.Sources, 2)
}

func TestWatch_PingAndUnknownType(t *testing.T) {
	_, conn := newWatchServer(t, llmclient.NewFakeClient())
	readWatch(t, conn)

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "PING"}))
	assert.Equal(t, "pong", readWatch(t, conn).Type)

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "delete"}))
	out := readWatch(t, conn)
	assert.Equal(t, "error", out.Type)
	assert.Equal(t, "invalid_argument", out.Code)
	assert.Equal(t, "unsupported type: delete", out.Message)
}

func TestWatch_RefreshWhileBusy(t *testing.T) {
	client := llmclient.NewFakeClient()
	client.Gate = make(chan struct{})
	_, conn := newWatchServer(t, client)
	readWatch(t, conn)

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "refresh"}))
	readUntil(t, conn, func(o watchOutbound) bool {
		return o.Type == "status" && o.Status.State == types.FetchLoading
	})

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "refresh"}))
	busy := readUntil(t, conn, func(o watchOutbound) bool { return o.Type == "error" })
	assert.Equal(t, "busy", busy.Code)

	close(client.Gate)
	readUntil(t, conn, func(o watchOutbound) bool {
		return o.Type == "status" && o.Status.State == types.FetchSuccess
	})
	assert.Equal(t, 1, client.Calls())
}

func TestWatch_FailurePublishesUserMessage(t *testing.T) {
	client := llmclient.NewFakeClient()
	client.Err = &llmclient.CollaboratorError{Provider: "fake", Err: assert.AnError}
	_, conn := newWatchServer(t, client)
	readWatch(t, conn)

	require.NoError(t, conn.WriteJSON(watchInbound{Type: "refresh"}))
	failed := readUntil(t, conn, func(o watchOutbound) bool {
		return o.Type == "status" && o.Status.State == types.FetchError
	})
	assert.Equal(t, dashboard.UserErrorMessage, failed.Status.Error)
	assert.Nil(t, failed.Status.Snapshot)
}

func TestRefresh_AbortedRequestKeepsSnapshot(t *testing.T) {
	svc := dashboard.New(fetch.New(llmclient.NewFakeClient(), normalize.New(), llmtool.DefaultProfile()), dashboard.Options{})
	_, err := svc.Refresh(t.Context())
	require.NoError(t, err)
	h := routes(NewDashboardHandler(svc, nil))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil).WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	st := svc.Current()
	assert.Equal(t, types.FetchSuccess, st.State)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, 6, st.Snapshot.Len())
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"boxoffice/internal/dashboard"
)

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchInbound struct {
	Type string `json:"type"`
}

type watchOutbound struct {
	Type    string            `json:"type"`
	Status  *dashboard.Status `json:"status,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

// Watch streams every published dashboard status over a websocket. Clients
// may send {"type":"refresh"} to start a fetch or {"type":"ping"}.
func (h *DashboardHandler) Watch(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchPongWait)); err != nil {
		log.Warn().Err(err).Msg("watch: set read deadline")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	writeCh := make(chan watchOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		for st := range h.svc.Subscribe(ctx) {
			pushWatch(writeCh, watchOutbound{Type: "status", Status: &st})
		}
	}()

	for {
		var in watchInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch msgType := strings.ToLower(strings.TrimSpace(in.Type)); msgType {
		case "ping":
			pushWatch(writeCh, watchOutbound{Type: "pong"})
		case "refresh":
			// other viewers keep watching after this socket closes
			go h.refreshFromWatch(context.WithoutCancel(ctx), writeCh)
		case "":
			pushWatch(writeCh, watchOutbound{Type: "error", Code: "invalid_argument", Message: "type is required"})
		default:
			pushWatch(writeCh, watchOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported type: " + msgType})
		}
	}
}

// refreshFromWatch reports only rejections; outcomes arrive as statuses.
func (h *DashboardHandler) refreshFromWatch(ctx context.Context, writeCh chan watchOutbound) {
	_, err := h.svc.Refresh(ctx)
	if errors.Is(err, dashboard.ErrRefreshInProgress) {
		pushWatch(writeCh, watchOutbound{Type: "error", Code: "busy", Message: err.Error()})
	}
}

func pushWatch(writeCh chan watchOutbound, out watchOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}

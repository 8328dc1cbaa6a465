package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"planner-server/internal/app"
	"planner-server/internal/join"
	"planner-server/internal/metrics"
	"planner-server/internal/room"
)

// Server is the HTTP/WebSocket front door, generalizing the teacher's
// app.Server: one mux.Router, serving the upgrade endpoint at any path
// (per spec.md §6) plus a Prometheus /metrics endpoint.
type Server struct {
	router         *mux.Router
	app            *app.App
	logger         *zap.Logger
	metrics        *metrics.Recorder
	maxOutboxDepth int
	upgrader       websocket.Upgrader
}

// NewServer builds the router. maxOutboxDepth bounds each connection's
// outbound queue (config.MaxOutboundQueue).
func NewServer(a *app.App, logger *zap.Logger, recorder *metrics.Recorder, maxOutboxDepth int) *Server {
	s := &Server{
		app:            a,
		logger:         logger,
		metrics:        recorder,
		maxOutboxDepth: maxOutboxDepth,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.PathPrefix("/").HandlerFunc(s.handleUpgrade)
	s.router = r

	return s
}

// Handler returns the server's http.Handler, for use with http.Server or
// httptest.
func (s *Server) Handler() http.Handler { return s.router }

// handleUpgrade validates the upgrade request per spec.md §6, performs the
// join handshake (protocol/room/username/color/canvas/password) per
// §4.4, and on success admits the user and starts its read/write pumps.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if !isValidUpgradeRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"type": "websocket_error"})
		return
	}

	params, joinErr := join.Validate(r.URL.Query())
	if joinErr != nil {
		s.rejectAfterUpgrade(w, r, joinErr)
		return
	}

	existingRoom, exists := s.app.GetRoom(params.RoomName)
	var cfg room.Config
	if exists {
		cfg = existingRoom.Config()
	}
	if joinErr := join.CheckPassword(cfg, exists, params.Password); joinErr != nil {
		s.rejectAfterUpgrade(w, r, joinErr)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed after validation", zap.Error(err))
		return
	}

	out := newOutbox(s.maxOutboxDepth)
	addr := room.Addr(fmt.Sprintf("%s-%s", r.RemoteAddr, r.Header.Get("Sec-WebSocket-Key")))

	newRoomConfig := room.Config{Password: params.Password}
	view := s.app.AdmitUser(addr, params.RoomName, newRoomConfig, app.NewJoiner{
		Username: params.Username,
		Color:    params.Color,
		Canvas:   params.Canvas,
		Outbox:   out,
	})

	c := &connection{
		conn:     conn,
		app:      s.app,
		metrics:  s.metrics,
		logger:   s.logger,
		roomName: params.RoomName,
		addr:     addr,
		out:      out,
	}
	s.logger.Info("user joined", zap.String("room", params.RoomName), zap.String("uuid", view.UUID.String()))

	go c.writePump()
	go c.readPump()
}

// rejectAfterUpgrade completes the WebSocket handshake (the join errors
// in spec.md §6 are reported as close frames, not HTTP errors — the
// client only learns it failed after the socket briefly opens) and
// immediately closes it with the library code and JSON reason.
func (s *Server) rejectAfterUpgrade(w http.ResponseWriter, r *http.Request, joinErr *join.Error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	closeMsg := websocket.FormatCloseMessage(joinErr.Code, string(joinErr.Reason()))
	_ = conn.WriteControl(websocket.CloseMessage, closeMsg, deadlineNow())
}

// isValidUpgradeRequest mirrors original_source's is_valid_request: GET,
// HTTP/1.1+, Connection: Upgrade, Upgrade: websocket, Sec-WebSocket-Version
// 13, and a Sec-WebSocket-Key present.
func isValidUpgradeRequest(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if !r.ProtoAtLeast(1, 1) {
		return false
	}
	if !headerContainsToken(r.Header.Get("Connection"), "upgrade") {
		return false
	}
	if !headerContainsToken(r.Header.Get("Upgrade"), "websocket") {
		return false
	}
	if r.Header.Get("Sec-WebSocket-Version") != "13" {
		return false
	}
	if r.Header.Get("Sec-WebSocket-Key") == "" {
		return false
	}
	return true
}

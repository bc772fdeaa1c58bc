package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	hertzws "github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
)

// HandleHertzConnection upgrades a WebSocket connection on the main HTTP port
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *hertzws.HertzUpgrader) {
	// Check connection limit
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}

	userId, err := strconv.ParseInt(string(c.Query(QueryUserId)), 10, 64)
	if err != nil || userId <= 0 {
		c.String(400, "missing or invalid userId")
		return
	}

	err = upgrader.Upgrade(c, func(conn *hertzws.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
		client := NewClient(wsConn, userId, connId, s)

		s.registerChan <- client

		// Blocking read loop keeps the upgraded connection alive
		client.readLoop()
	})
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}

// HandleConnection upgrades a WebSocket connection on the standalone listener
func (s *WsServer) HandleConnection(upgrader *gorillaws.Upgrader, w http.ResponseWriter, r *http.Request) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	userId, err := strconv.ParseInt(r.URL.Query().Get(QueryUserId), 10, 64)
	if err != nil || userId <= 0 {
		http.Error(w, "missing or invalid userId", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
	client := NewClient(wsConn, userId, connId, s)

	s.registerChan <- client
	client.Start()
}

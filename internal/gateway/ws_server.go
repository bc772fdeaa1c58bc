package gateway

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/mbeoliero/kit/log"
)

// WsServer owns the live connection set and fans events out to it. Register
// and unregister funnel through one event loop so presence transitions and
// their broadcasts happen in connection order; payload delivery itself is
// spread over a pool of push workers.
type WsServer struct {
	cfg            *config.Config
	registry       *PresenceRegistry
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *PushTask
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// PushTask is one queued fan-out. Nil TargetIds means every connected client.
type PushTask struct {
	Event     string
	Payload   interface{}
	TargetIds []int64
}

// NewWsServer creates a WebSocket server around an injected registry
func NewWsServer(cfg *config.Config, registry *PresenceRegistry) *WsServer {
	return &WsServer{
		cfg:            cfg,
		registry:       registry,
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		pushChan:       make(chan *PushTask, cfg.WebSocket.PushChannelSize),
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Run starts the WebSocket server loops
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)

	workerNum := s.cfg.WebSocket.PushWorkerNum
	if workerNum <= 0 {
		workerNum = 10
	}
	for i := 0; i < workerNum; i++ {
		go s.pushLoop(ctx)
	}
	log.Info("started %d push workers", workerNum)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// pushLoop handles async event delivery
func (s *WsServer) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.pushChan:
			s.processPushTask(ctx, task)
		}
	}
}

// processPushTask marshals the envelope once and writes it to every target
// connection. Write failures are per-connection and only logged.
func (s *WsServer) processPushTask(ctx context.Context, task *PushTask) {
	data, err := json.Marshal(&EventEnvelope{Event: task.Event, Data: task.Payload})
	if err != nil {
		log.CtxError(ctx, "marshal event failed: event=%s err=%v", task.Event, err)
		return
	}

	if task.TargetIds == nil {
		for _, client := range s.registry.AllClients() {
			if err := client.Write(data); err != nil {
				log.CtxDebug(ctx, "push to client failed: user_id=%d, conn_id=%s, error=%v", client.UserId, client.ConnId, err)
			}
		}
		return
	}

	for _, userId := range task.TargetIds {
		clients, ok := s.registry.GetAll(userId)
		if !ok {
			continue
		}
		for _, client := range clients {
			if err := client.Write(data); err != nil {
				log.CtxDebug(ctx, "push to client failed: user_id=%d, conn_id=%s, error=%v", userId, client.ConnId, err)
			}
		}
	}
}

// registerClient adds the connection and broadcasts online on first connect
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	wentOnline := s.registry.Add(ctx, client)
	s.onlineConnNum.Add(1)
	if wentOnline {
		s.onlineUserNum.Add(1)
		now := entity.NowUnixMilli()
		s.BroadcastAll(constant.EventPresence, &PresenceEvent{
			UserId:   client.UserId,
			Status:   constant.PresenceOnline,
			LastSeen: &now,
		})
	}

	log.CtxInfo(ctx, "client registered: user_id=%d, conn_id=%s, went_online=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, wentOnline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient removes the connection and broadcasts offline on the last
// disconnect. The registry decides the transition, so closing one of several
// tabs never produces a broadcast.
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	wentOffline, lastSeen := s.registry.Remove(ctx, client)
	s.onlineConnNum.Add(-1)
	if wentOffline {
		s.onlineUserNum.Add(-1)
		s.BroadcastAll(constant.EventPresence, &PresenceEvent{
			UserId:   client.UserId,
			Status:   constant.PresenceOffline,
			LastSeen: &lastSeen,
		})
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%d, conn_id=%s, went_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, wentOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%d", client.UserId)
	}
}

// PushToUsers queues an event for every connection of the given users
func (s *WsServer) PushToUsers(event string, payload interface{}, userIds ...int64) {
	if len(userIds) == 0 {
		return
	}
	s.enqueue(&PushTask{Event: event, Payload: payload, TargetIds: userIds})
}

// BroadcastAll queues an event for every connected client
func (s *WsServer) BroadcastAll(event string, payload interface{}) {
	s.enqueue(&PushTask{Event: event, Payload: payload})
}

func (s *WsServer) enqueue(task *PushTask) {
	select {
	case s.pushChan <- task:
	default:
		log.Warn("push channel full, event dropped: event=%s", task.Event)
	}
}

// GetOnlineUserCount returns online user count
func (s *WsServer) GetOnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

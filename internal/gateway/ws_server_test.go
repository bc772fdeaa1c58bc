package gateway

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	written [][]byte
	closed  bool
}

func (f *fakeConn) ReadMessage() ([]byte, error)      { select {} }
func (f *fakeConn) WriteMessage(data []byte) error    { f.written = append(f.written, data); return nil }
func (f *fakeConn) Close() error                      { f.closed = true; return nil }
func (f *fakeConn) SetReadDeadline(t time.Time) error { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func testWsServer() *WsServer {
	cfg := &config.Config{}
	cfg.WebSocket.PushChannelSize = 64
	cfg.WebSocket.MaxConnNum = 100
	cfg.WebSocket.PushWorkerNum = 1
	return NewWsServer(cfg, NewPresenceRegistry(nil, nil))
}

func connect(s *WsServer, userId int64, connId string) (*Client, *fakeConn) {
	conn := &fakeConn{}
	client := NewClient(conn, userId, connId, s)
	s.registerClient(context.Background(), client)
	return client, conn
}

func decodeEnvelope(t *testing.T, data []byte) *EventEnvelope {
	t.Helper()
	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	return &envelope
}

func takeTask(t *testing.T, s *WsServer) *PushTask {
	t.Helper()
	select {
	case task := <-s.pushChan:
		return task
	default:
		t.Fatal("expected a queued push task")
		return nil
	}
}

func TestWsServer_TargetedPush(t *testing.T) {
	s := testWsServer()
	_, conn1 := connect(s, 1, "a")
	_, conn2 := connect(s, 2, "b")
	_, conn3 := connect(s, 3, "c")
	drainPresence(s)

	s.processPushTask(context.Background(), &PushTask{
		Event:     constant.EventNewMessage,
		Payload:   map[string]int64{"conversationId": 9},
		TargetIds: []int64{1, 2, 99},
	})

	require.Len(t, conn1.written, 1)
	require.Len(t, conn2.written, 1)
	assert.Empty(t, conn3.written)

	envelope := decodeEnvelope(t, conn1.written[0])
	assert.Equal(t, constant.EventNewMessage, envelope.Event)
}

func TestWsServer_BroadcastReachesEveryConn(t *testing.T) {
	s := testWsServer()
	_, conn1 := connect(s, 1, "a")
	_, conn2 := connect(s, 1, "b")
	_, conn3 := connect(s, 2, "c")
	drainPresence(s)

	s.processPushTask(context.Background(), &PushTask{
		Event:   constant.EventPresence,
		Payload: &PresenceEvent{UserId: 5, Status: constant.PresenceOnline},
	})

	// nil targets means every connection, including parallel tabs
	assert.Len(t, conn1.written, 1)
	assert.Len(t, conn2.written, 1)
	assert.Len(t, conn3.written, 1)
}

func TestWsServer_PresenceBroadcastOnTransitionsOnly(t *testing.T) {
	s := testWsServer()

	first, _ := connect(s, 1, "a")
	task := takeTask(t, s)
	assert.Equal(t, constant.EventPresence, task.Event)
	assert.Nil(t, task.TargetIds)
	event := task.Payload.(*PresenceEvent)
	assert.Equal(t, int64(1), event.UserId)
	assert.Equal(t, constant.PresenceOnline, event.Status)
	require.NotNil(t, event.LastSeen)

	// a second tab does not re-announce
	second, _ := connect(s, 1, "b")
	assert.Empty(t, s.pushChan)

	// closing one tab is silent, closing the last one announces offline
	s.unregisterClient(context.Background(), first)
	assert.Empty(t, s.pushChan)

	s.unregisterClient(context.Background(), second)
	task = takeTask(t, s)
	event = task.Payload.(*PresenceEvent)
	assert.Equal(t, constant.PresenceOffline, event.Status)
	require.NotNil(t, event.LastSeen)

	assert.Equal(t, int64(0), s.GetOnlineUserCount())
	assert.Equal(t, int64(0), s.GetOnlineConnCount())
}

func TestClient_TypingRelay(t *testing.T) {
	s := testWsServer()
	sender, _ := connect(s, 1, "a")
	connect(s, 2, "b")
	drainPresence(s)

	frame := []byte(`{"event":"typing","data":{"to":2}}`)
	require.NoError(t, sender.handleFrame(frame))

	task := takeTask(t, s)
	assert.Equal(t, constant.EventTyping, task.Event)
	assert.Equal(t, []int64{2}, task.TargetIds)
	assert.Equal(t, &TypingEvent{From: 1}, task.Payload)
}

func TestClient_DropsUnknownAndInvalidFrames(t *testing.T) {
	s := testWsServer()
	sender, _ := connect(s, 1, "a")
	drainPresence(s)

	// unknown events are ignored, the connection survives
	require.NoError(t, sender.handleFrame([]byte(`{"event":"nope","data":{}}`)))
	assert.Empty(t, s.pushChan)
	assert.False(t, sender.IsClosed())

	assert.Equal(t, ErrInvalidFrame, sender.handleFrame([]byte(`not json`)))

	// typing without a valid target is a no-op
	require.NoError(t, sender.handleFrame([]byte(`{"event":"typing","data":{"to":0}}`)))
	assert.Empty(t, s.pushChan)
}

func TestClient_WriteAfterClose(t *testing.T) {
	s := testWsServer()
	client, conn := connect(s, 1, "a")
	drainPresence(s)

	require.NoError(t, client.Write([]byte(`{}`)))
	require.NoError(t, client.Close())
	assert.True(t, conn.closed)

	assert.Equal(t, ErrConnClosed, client.Write([]byte(`{}`)))
}

// drainPresence discards the presence broadcasts queued by registration
func drainPresence(s *WsServer) {
	for {
		select {
		case <-s.pushChan:
		default:
			return
		}
	}
}

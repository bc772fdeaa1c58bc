package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lastSeenCall struct {
	userId   int64
	lastSeen int64
}

type fakeLastSeenWriter struct {
	calls []lastSeenCall
	err   error
}

func (f *fakeLastSeenWriter) UpdateLastSeen(ctx context.Context, userId int64, lastSeen int64) error {
	f.calls = append(f.calls, lastSeenCall{userId: userId, lastSeen: lastSeen})
	return f.err
}

func testClient(userId int64, connId string) *Client {
	return &Client{UserId: userId, ConnId: connId}
}

func TestPresenceRegistry_OnlineTransitions(t *testing.T) {
	ctx := context.Background()
	store := &fakeLastSeenWriter{}
	registry := NewPresenceRegistry(nil, store)

	first := testClient(1, "conn-a")
	second := testClient(1, "conn-b")

	// only the first connection flips the user online
	assert.True(t, registry.Add(ctx, first))
	assert.False(t, registry.Add(ctx, second))

	assert.True(t, registry.HasConnection(1))
	assert.Equal(t, 1, registry.OnlineUserCount())
	assert.Equal(t, 2, registry.ConnCount())

	// closing one of two tabs keeps the user online
	wentOffline, _ := registry.Remove(ctx, first)
	assert.False(t, wentOffline)
	assert.True(t, registry.HasConnection(1))
	assert.Empty(t, store.calls)

	// the last close transitions offline exactly once and persists last_seen
	wentOffline, lastSeen := registry.Remove(ctx, second)
	assert.True(t, wentOffline)
	assert.Greater(t, lastSeen, int64(0))

	require.Len(t, store.calls, 1)
	assert.Equal(t, int64(1), store.calls[0].userId)
	assert.Equal(t, lastSeen, store.calls[0].lastSeen)

	// entry is gone, not just emptied
	assert.False(t, registry.HasConnection(1))
	assert.Equal(t, 0, registry.OnlineUserCount())
	_, exists := registry.GetAll(1)
	assert.False(t, exists)
}

func TestPresenceRegistry_RemoveUnknownConn(t *testing.T) {
	ctx := context.Background()
	registry := NewPresenceRegistry(nil, &fakeLastSeenWriter{})

	wentOffline, lastSeen := registry.Remove(ctx, testClient(42, "ghost"))
	assert.False(t, wentOffline)
	assert.Zero(t, lastSeen)
}

func TestPresenceRegistry_PersistFailureStillTransitions(t *testing.T) {
	ctx := context.Background()
	store := &fakeLastSeenWriter{err: errors.New("db down")}
	registry := NewPresenceRegistry(nil, store)

	client := testClient(3, "conn-a")
	registry.Add(ctx, client)

	// the offline transition must not depend on the durable write
	wentOffline, lastSeen := registry.Remove(ctx, client)
	assert.True(t, wentOffline)
	assert.Greater(t, lastSeen, int64(0))
	assert.Len(t, store.calls, 1)
}

func TestPresenceRegistry_Snapshots(t *testing.T) {
	ctx := context.Background()
	registry := NewPresenceRegistry(nil, &fakeLastSeenWriter{})

	registry.Add(ctx, testClient(1, "a"))
	registry.Add(ctx, testClient(1, "b"))
	registry.Add(ctx, testClient(2, "c"))

	clients, exists := registry.GetAll(1)
	assert.True(t, exists)
	assert.Len(t, clients, 2)

	assert.Len(t, registry.AllClients(), 3)
	assert.Equal(t, 2, registry.OnlineUserCount())

	// no redis mirror configured, so only local state counts
	assert.True(t, registry.IsOnline(ctx, 1))
	assert.False(t, registry.IsOnline(ctx, 99))
}

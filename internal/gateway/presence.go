package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// LastSeenWriter persists the durable last-seen baseline on full disconnect
type LastSeenWriter interface {
	UpdateLastSeen(ctx context.Context, userId int64, lastSeen int64) error
}

// PresenceRegistry tracks the live connections of each user. A user is online
// while at least one connection is registered; the entry is dropped entirely
// when the last one goes away, so the map never accumulates dead users.
//
// The registry is plain state behind a mutex and is handed to its server at
// construction time. Tests build their own instances.
type PresenceRegistry struct {
	mu      sync.RWMutex
	entries map[int64]*presenceEntry
	rdb     *redis.Client
	store   LastSeenWriter
}

type presenceEntry struct {
	conns    map[string]*Client // connId -> client
	lastSeen int64
}

// NewPresenceRegistry creates a registry. rdb mirrors online flags for other
// processes and may be nil; store receives the durable last-seen writes.
func NewPresenceRegistry(rdb *redis.Client, store LastSeenWriter) *PresenceRegistry {
	return &PresenceRegistry{
		entries: make(map[int64]*presenceEntry),
		rdb:     rdb,
		store:   store,
	}
}

// Add registers a connection and reports whether the user just came online.
// Only the first connection of a user produces a transition; parallel tabs
// and devices stack silently.
func (r *PresenceRegistry) Add(ctx context.Context, client *Client) (wentOnline bool) {
	r.mu.Lock()
	entry, exists := r.entries[client.UserId]
	if !exists {
		entry = &presenceEntry{conns: make(map[string]*Client, 2)}
		r.entries[client.UserId] = entry
	}
	entry.conns[client.ConnId] = client
	entry.lastSeen = entity.NowUnixMilli()
	r.mu.Unlock()

	r.setOnline(ctx, client.UserId)
	return !exists
}

// Remove deregisters a connection. When it was the user's last one the entry
// is deleted, last_seen is persisted and (true, lastSeen) is returned so the
// caller can broadcast offline exactly once. Persistence failure is logged
// and does not block the transition.
func (r *PresenceRegistry) Remove(ctx context.Context, client *Client) (wentOffline bool, lastSeen int64) {
	r.mu.Lock()
	entry, exists := r.entries[client.UserId]
	if !exists {
		r.mu.Unlock()
		return false, 0
	}

	delete(entry.conns, client.ConnId)
	if len(entry.conns) > 0 {
		r.mu.Unlock()
		return false, 0
	}

	delete(r.entries, client.UserId)
	lastSeen = entity.NowUnixMilli()
	r.mu.Unlock()

	r.setOffline(ctx, client.UserId)

	if r.store != nil {
		if err := r.store.UpdateLastSeen(ctx, client.UserId, lastSeen); err != nil {
			log.CtxWarn(ctx, "persist last_seen failed: user_id=%d err=%v", client.UserId, err)
		}
	}
	return true, lastSeen
}

// GetAll returns a snapshot of the user's connections
func (r *PresenceRegistry) GetAll(userId int64) ([]*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[userId]
	if !exists {
		return nil, false
	}

	clients := make([]*Client, 0, len(entry.conns))
	for _, c := range entry.conns {
		clients = append(clients, c)
	}
	return clients, true
}

// AllClients returns a snapshot of every live connection
func (r *PresenceRegistry) AllClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var clients []*Client
	for _, entry := range r.entries {
		for _, c := range entry.conns {
			clients = append(clients, c)
		}
	}
	return clients
}

// HasConnection reports whether the user has any live connection here
func (r *PresenceRegistry) HasConnection(userId int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[userId]
	return exists && len(entry.conns) > 0
}

// OnlineUserCount returns the number of distinct online users
func (r *PresenceRegistry) OnlineUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ConnCount returns the total number of live connections
func (r *PresenceRegistry) ConnCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.entries {
		count += len(entry.conns)
	}
	return count
}

// IsOnline checks local connections first, then the Redis mirror so peer
// processes count too
func (r *PresenceRegistry) IsOnline(ctx context.Context, userId int64) bool {
	if r.HasConnection(userId) {
		return true
	}

	if r.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := r.rdb.Exists(ctx, key).Result()
		return exists > 0
	}
	return false
}

// RefreshOnlineStatus extends the Redis mirror TTL while the user stays connected
func (r *PresenceRegistry) RefreshOnlineStatus(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	if r.HasConnection(userId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		r.rdb.Expire(ctx, key, 60*time.Second)
	}
}

// setOnline marks user as online in the Redis mirror
func (r *PresenceRegistry) setOnline(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	r.rdb.Set(ctx, key, "1", 60*time.Second)
}

// setOffline clears the Redis mirror
func (r *PresenceRegistry) setOffline(ctx context.Context, userId int64) {
	if r.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	r.rdb.Del(ctx, key)
}

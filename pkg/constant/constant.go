package constant

// User roles
const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Booking statuses
const (
	BookingStatusPending   = "Pending"
	BookingStatusApproved  = "Approved"
	BookingStatusRejected  = "Rejected"
	BookingStatusCancelled = "Cancelled"
)

// Verification form statuses
const (
	FormStatusPending  = "Pending"
	FormStatusApproved = "Approved"
	FormStatusRejected = "Rejected"
)

// Message types
const (
	MsgTypeText  = "text"
	MsgTypeImage = "image"
)

// Presence statuses
const (
	PresenceOnline  = "online"
	PresenceOffline = "offline"
)

// Real-time event names
const (
	EventPresence   = "presence"
	EventNewMessage = "new_message"
	EventTyping     = "typing"
	EventStopTyping = "stop_typing"
)

// Redis key patterns (without prefix, use the getters to obtain full keys)
const (
	redisKeyOnline = "online:%d" // online:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "driveline:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// RedisKeyOnline returns the online-status key pattern with prefix
func RedisKeyOnline() string { return redisKeyPrefix + redisKeyOnline }

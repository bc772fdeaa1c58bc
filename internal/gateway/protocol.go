package gateway

import "encoding/json"

// EventEnvelope frames every server-to-client message. Data carries the
// event-specific payload.
type EventEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// InboundFrame is a client-to-server message. Only typing relay events arrive
// this way; everything else goes over HTTP.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TypingFrame is the payload of an inbound typing or stop_typing frame
type TypingFrame struct {
	To int64 `json:"to"`
}

// PresenceEvent announces a user's presence transition to every connected client
type PresenceEvent struct {
	UserId   int64  `json:"userId"`
	Status   string `json:"status"`
	LastSeen *int64 `json:"last_seen"`
}

// TypingEvent is relayed to the target user's connections
type TypingEvent struct {
	From int64 `json:"from"`
}

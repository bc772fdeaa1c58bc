package entity

// Conversation represents the durable identity of a two-party chat thread,
// keyed by the normalized unordered pair of participant ids.
type Conversation struct {
	Id              int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ParticipantLow  int64  `json:"participant_low" gorm:"column:participant_low;uniqueIndex:uk_participants,priority:1"`
	ParticipantHigh int64  `json:"participant_high" gorm:"column:participant_high;uniqueIndex:uk_participants,priority:2"`
	LastMessageId   *int64 `json:"last_message_id" gorm:"column:last_message_id"`
	CreatedAt       int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt       int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "chat_conversations"
}

// Includes reports whether userId is one of the two participants
func (c *Conversation) Includes(userId int64) bool {
	return c.ParticipantLow == userId || c.ParticipantHigh == userId
}

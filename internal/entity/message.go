package entity

import "github.com/driveline/driveline/pkg/constant"

// Message is an immutable append-only chat record. The only mutation ever
// applied is the single null-to-timestamp transition of ReadAt.
type Message struct {
	Id             int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId int64   `json:"conversationId" gorm:"column:conversation_id;index"`
	SenderId       int64   `json:"senderId" gorm:"column:sender_id;index"`
	ReceiverId     int64   `json:"receiverId" gorm:"column:receiver_id;index"`
	Type           string  `json:"type" gorm:"column:type"`
	Content        string  `json:"content" gorm:"column:content"`
	ImageUrl       *string `json:"imageUrl" gorm:"column:image_url"`
	CreatedAt      int64   `json:"createdAt" gorm:"column:created_at;autoCreateTime:milli"`
	ReadAt         *int64  `json:"readAt" gorm:"column:read_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "chat_messages"
}

// DisplayText returns the inbox preview text for the message
func (m *Message) DisplayText() string {
	if m.Type == constant.MsgTypeImage {
		return "[Image]"
	}
	return m.Content
}

// UnreadSummaryEntry is one per-peer row of the unread summary
type UnreadSummaryEntry struct {
	OtherUserId int64  `json:"otherUserId"`
	UnreadCount int64  `json:"unreadCount"`
	LastMessage string `json:"lastMessage"`
	LastTime    int64  `json:"lastTime"`
}

// UnreadCountRow is the grouped unread-count projection from the store
type UnreadCountRow struct {
	SenderId int64 `gorm:"column:sender_id"`
	Count    int64 `gorm:"column:cnt"`
}

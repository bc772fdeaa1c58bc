package repository

import (
	"context"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
)

// MessageRepo is the repository for chat message operations
type MessageRepo struct {
	db *gorm.DB
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts a new message within the given transaction
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	msg.CreatedAt = entity.NowUnixMilli()
	return tx.WithContext(ctx).Create(msg).Error
}

// ListBefore fetches up to limit messages with id < beforeId, newest first.
// Callers over-fetch by one to detect whether older history remains.
func (r *MessageRepo) ListBefore(ctx context.Context, conversationId, beforeId int64, limit int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND id < ?", conversationId, beforeId).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// ListOffset fetches up to limit messages at the given offset, newest first.
// Page boundaries drift under concurrent inserts; keyset pagination via
// ListBefore is the stable path.
func (r *MessageRepo) ListOffset(ctx context.Context, conversationId int64, offset, limit int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead stamps read_at on every unread message from senderId to receiverId.
// read_at only ever transitions null -> timestamp; re-invocation matches no rows.
func (r *MessageRepo) MarkRead(ctx context.Context, senderId, receiverId int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL", senderId, receiverId).
		Update("read_at", entity.NowUnixMilli()).Error
}

// UnreadCounts groups unread messages addressed to userId by sender
func (r *MessageRepo) UnreadCounts(ctx context.Context, userId int64) ([]*entity.UnreadCountRow, error) {
	var rows []*entity.UnreadCountRow
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Select("sender_id, COUNT(*) AS cnt").
		Where("receiver_id = ? AND read_at IS NULL", userId).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListExchanged fetches all messages the user sent or received, newest first,
// for last-message-per-peer folding
func (r *MessageRepo) ListExchanged(ctx context.Context, userId int64) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userId, userId).
		Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

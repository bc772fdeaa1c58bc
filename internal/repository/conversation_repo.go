package repository

import (
	"context"
	"errors"

	"github.com/driveline/driveline/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db *gorm.DB
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetByPair gets the conversation for a normalized participant pair
func (r *ConversationRepo) GetByPair(ctx context.Context, low, high int64) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetOrCreate resolves the conversation for an unordered user pair, creating it
// lazily on first contact. The insert goes through ON CONFLICT DO NOTHING against
// the (participant_low, participant_high) uniqueness constraint, so a race between
// two simultaneous first messages cannot produce two rows; on conflict the winner's
// row is re-fetched.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB int64) (*entity.Conversation, error) {
	low, high := entity.NormalizePair(userA, userB)

	conv, err := r.GetByPair(ctx, low, high)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	now := entity.NowUnixMilli()
	fresh := &entity.Conversation{
		ParticipantLow:  low,
		ParticipantHigh: high,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_low"}, {Name: "participant_high"}},
		DoNothing: true,
	}).Create(fresh).Error
	if err != nil {
		return nil, err
	}

	// DoNothing leaves Id zero when another writer won the race
	if fresh.Id != 0 {
		return fresh, nil
	}
	return r.GetByPair(ctx, low, high)
}

// TouchLastMessage updates the conversation's last-message back-reference
func (r *ConversationRepo) TouchLastMessage(ctx context.Context, tx *gorm.DB, conversationId, messageId int64) error {
	return tx.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ?", conversationId).
		Updates(map[string]interface{}{
			"last_message_id": messageId,
			"updated_at":      entity.NowUnixMilli(),
		}).Error
}

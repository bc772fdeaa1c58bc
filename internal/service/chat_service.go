package service

import (
	"context"
	"strings"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// Broadcaster delivers real-time events to connected clients. Delivery is
// fire-and-forget: failures are logged by the implementation and never
// surface into request handling.
type Broadcaster interface {
	PushToUsers(event string, payload interface{}, userIds ...int64)
}

// ConversationStore is the conversation persistence surface used by ChatService
type ConversationStore interface {
	GetOrCreate(ctx context.Context, userA, userB int64) (*entity.Conversation, error)
	TouchLastMessage(ctx context.Context, tx *gorm.DB, conversationId, messageId int64) error
}

// MessageStore is the message persistence surface used by ChatService
type MessageStore interface {
	Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error
	ListBefore(ctx context.Context, conversationId, beforeId int64, limit int) ([]*entity.Message, error)
	ListOffset(ctx context.Context, conversationId int64, offset, limit int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, senderId, receiverId int64) error
	UnreadCounts(ctx context.Context, userId int64) ([]*entity.UnreadCountRow, error)
	ListExchanged(ctx context.Context, userId int64) ([]*entity.Message, error)
}

// TxRunner runs a function inside a storage transaction
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ChatService handles conversation resolution, message delivery and unread state
type ChatService struct {
	convStore ConversationStore
	msgStore  MessageStore
	tx        TxRunner
	pusher    Broadcaster
}

// NewChatService creates a new ChatService
func NewChatService(repos *repository.Repositories) *ChatService {
	return &ChatService{
		convStore: repos.Conversation,
		msgStore:  repos.Message,
		tx:        repos,
	}
}

// SetPusher sets the real-time broadcaster
func (s *ChatService) SetPusher(pusher Broadcaster) {
	s.pusher = pusher
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	CurrentUserId int64   `json:"currentUserId"`
	To            int64   `json:"to"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	ImageUrl      *string `json:"imageUrl"`
}

// SendMessageResponse is the persisted message together with its conversation id
type SendMessageResponse struct {
	ConversationId int64           `json:"conversationId"`
	Message        *entity.Message `json:"message"`
}

// NewMessageEvent is the real-time payload pushed to both participants
type NewMessageEvent struct {
	ConversationId int64           `json:"conversationId"`
	Message        *entity.Message `json:"message"`
}

// SendMessage persists a message and notifies both participants. The message
// row and the conversation's last-message pointer commit in one transaction;
// the broadcast happens after commit and cannot fail the send.
func (s *ChatService) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	if req.CurrentUserId <= 0 || req.To <= 0 {
		return nil, errcode.ErrMissingParams
	}

	msgType := req.Type
	if msgType == "" {
		msgType = constant.MsgTypeText
	}
	if msgType == constant.MsgTypeText && strings.TrimSpace(req.Content) == "" {
		return nil, errcode.ErrEmptyContent
	}

	conv, err := s.convStore.GetOrCreate(ctx, req.CurrentUserId, req.To)
	if err != nil {
		log.CtxError(ctx, "resolve conversation failed: %v", err)
		return nil, errcode.ErrServer
	}

	msg := &entity.Message{
		ConversationId: conv.Id,
		SenderId:       req.CurrentUserId,
		ReceiverId:     req.To,
		Type:           msgType,
		Content:        req.Content,
		ImageUrl:       req.ImageUrl,
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.msgStore.Create(ctx, tx, msg); err != nil {
			return err
		}
		return s.convStore.TouchLastMessage(ctx, tx, conv.Id, msg.Id)
	})
	if err != nil {
		log.CtxError(ctx, "persist message failed: conversation_id=%d err=%v", conv.Id, err)
		return nil, errcode.ErrServer
	}

	if s.pusher != nil {
		event := &NewMessageEvent{ConversationId: conv.Id, Message: msg}
		s.pusher.PushToUsers(constant.EventNewMessage, event, req.To, req.CurrentUserId)
	}

	return &SendMessageResponse{ConversationId: conv.Id, Message: msg}, nil
}

// PageQuery selects one of the two pagination modes. Cursor mode wins whenever
// BeforeId is set; offset mode is the fallback for first loads and page jumps.
type PageQuery struct {
	BeforeId int64
	Page     int
	PageSize int
}

// normalize applies the defaults and cap shared by both modes
func (q *PageQuery) normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}

// Pagination describes how a history page was produced and how to fetch the next one
type Pagination struct {
	Mode         string `json:"mode"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	BeforeIdNext *int64 `json:"beforeIdNext"`
}

// HistoryResponse is one page of conversation history, oldest first
type HistoryResponse struct {
	ConversationId int64             `json:"conversationId"`
	Messages       []*entity.Message `json:"messages"`
	HasMore        bool              `json:"hasMore"`
	Pagination     *Pagination       `json:"pagination"`
}

// History returns one page of the conversation between two users. The store is
// over-fetched by one row to detect whether older history remains, and the page
// is reversed so clients always receive ascending order. Offset-mode page
// boundaries drift when new messages land between requests; cursor mode with
// beforeIdNext is the stable way to walk backwards.
func (s *ChatService) History(ctx context.Context, currentUserId, otherUserId int64, query *PageQuery) (*HistoryResponse, error) {
	if currentUserId <= 0 || otherUserId <= 0 {
		return nil, errcode.ErrMissingUserId
	}
	query.normalize()

	conv, err := s.convStore.GetOrCreate(ctx, currentUserId, otherUserId)
	if err != nil {
		log.CtxError(ctx, "resolve conversation failed: %v", err)
		return nil, errcode.ErrServer
	}

	var (
		rows []*entity.Message
		mode string
	)
	if query.BeforeId > 0 {
		mode = "cursor"
		rows, err = s.msgStore.ListBefore(ctx, conv.Id, query.BeforeId, query.PageSize+1)
	} else {
		mode = "page"
		rows, err = s.msgStore.ListOffset(ctx, conv.Id, (query.Page-1)*query.PageSize, query.PageSize+1)
	}
	if err != nil {
		log.CtxError(ctx, "list messages failed: conversation_id=%d err=%v", conv.Id, err)
		return nil, errcode.ErrServer
	}

	hasMore := len(rows) > query.PageSize
	if hasMore {
		rows = rows[:query.PageSize]
	}
	reverseMessages(rows)

	var beforeIdNext *int64
	if len(rows) > 0 {
		oldest := rows[0].Id
		beforeIdNext = &oldest
	}

	return &HistoryResponse{
		ConversationId: conv.Id,
		Messages:       rows,
		HasMore:        hasMore,
		Pagination: &Pagination{
			Mode:         mode,
			Page:         query.Page,
			PageSize:     query.PageSize,
			BeforeIdNext: beforeIdNext,
		},
	}, nil
}

// MarkRead stamps every unread message from otherUserId to currentUserId.
// Calling it again is a no-op.
func (s *ChatService) MarkRead(ctx context.Context, currentUserId, otherUserId int64) error {
	if currentUserId <= 0 || otherUserId <= 0 {
		return errcode.ErrMissingParams
	}

	if err := s.msgStore.MarkRead(ctx, otherUserId, currentUserId); err != nil {
		log.CtxError(ctx, "mark read failed: user_id=%d other=%d err=%v", currentUserId, otherUserId, err)
		return errcode.ErrServer
	}
	return nil
}

// UnreadSummary returns one entry per peer with unread messages addressed to
// userId, each carrying the most recent exchanged message as inbox preview.
// Peers with nothing unread are omitted.
func (s *ChatService) UnreadSummary(ctx context.Context, userId int64) ([]*entity.UnreadSummaryEntry, error) {
	if userId <= 0 {
		return nil, errcode.ErrMissingUserId
	}

	counts, err := s.msgStore.UnreadCounts(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "unread counts failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}
	if len(counts) == 0 {
		return []*entity.UnreadSummaryEntry{}, nil
	}

	exchanged, err := s.msgStore.ListExchanged(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list exchanged failed: user_id=%d err=%v", userId, err)
		return nil, errcode.ErrServer
	}

	// exchanged is newest first, so the first message seen per peer is the latest
	type lastEntry struct {
		text string
		at   int64
	}
	lastByPeer := make(map[int64]lastEntry, len(counts))
	for _, msg := range exchanged {
		peer := msg.SenderId
		if peer == userId {
			peer = msg.ReceiverId
		}
		if _, ok := lastByPeer[peer]; ok {
			continue
		}
		lastByPeer[peer] = lastEntry{text: msg.DisplayText(), at: msg.CreatedAt}
	}

	result := make([]*entity.UnreadSummaryEntry, 0, len(counts))
	for _, row := range counts {
		entry := &entity.UnreadSummaryEntry{
			OtherUserId: row.SenderId,
			UnreadCount: row.Count,
		}
		if last, ok := lastByPeer[row.SenderId]; ok {
			entry.LastMessage = last.text
			entry.LastTime = last.at
		}
		result = append(result, entry)
	}
	return result, nil
}

func reverseMessages(msgs []*entity.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/driveline/driveline/internal/entity"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeConvStore struct {
	conv       *entity.Conversation
	getErr     error
	touchedMsg int64
}

func (f *fakeConvStore) GetOrCreate(ctx context.Context, userA, userB int64) (*entity.Conversation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.conv, nil
}

func (f *fakeConvStore) TouchLastMessage(ctx context.Context, tx *gorm.DB, conversationId, messageId int64) error {
	f.touchedMsg = messageId
	return nil
}

type fakeMsgStore struct {
	nextId        int64
	created       []*entity.Message
	beforeRows    []*entity.Message
	offsetRows    []*entity.Message
	listBeforeId  int64
	listOffset    int
	listLimit     int
	markedSender  int64
	markedRecv    int64
	counts        []*entity.UnreadCountRow
	exchanged     []*entity.Message
	createErr     error
}

func (f *fakeMsgStore) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextId++
	msg.Id = f.nextId
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeMsgStore) ListBefore(ctx context.Context, conversationId, beforeId int64, limit int) ([]*entity.Message, error) {
	f.listBeforeId = beforeId
	f.listLimit = limit
	return f.beforeRows, nil
}

func (f *fakeMsgStore) ListOffset(ctx context.Context, conversationId int64, offset, limit int) ([]*entity.Message, error) {
	f.listOffset = offset
	f.listLimit = limit
	return f.offsetRows, nil
}

func (f *fakeMsgStore) MarkRead(ctx context.Context, senderId, receiverId int64) error {
	f.markedSender = senderId
	f.markedRecv = receiverId
	return nil
}

func (f *fakeMsgStore) UnreadCounts(ctx context.Context, userId int64) ([]*entity.UnreadCountRow, error) {
	return f.counts, nil
}

func (f *fakeMsgStore) ListExchanged(ctx context.Context, userId int64) ([]*entity.Message, error) {
	return f.exchanged, nil
}

type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type pushedEvent struct {
	event   string
	payload interface{}
	userIds []int64
}

type fakePusher struct {
	pushed []pushedEvent
}

func (f *fakePusher) PushToUsers(event string, payload interface{}, userIds ...int64) {
	f.pushed = append(f.pushed, pushedEvent{event: event, payload: payload, userIds: userIds})
}

func newTestChatService(conv *fakeConvStore, msgs *fakeMsgStore) (*ChatService, *fakePusher) {
	pusher := &fakePusher{}
	svc := &ChatService{
		convStore: conv,
		msgStore:  msgs,
		tx:        fakeTx{},
		pusher:    pusher,
	}
	return svc, pusher
}

func descMessages(conversationId int64, ids ...int64) []*entity.Message {
	msgs := make([]*entity.Message, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, &entity.Message{
			Id:             id,
			ConversationId: conversationId,
			Type:           constant.MsgTypeText,
			Content:        "hi",
		})
	}
	return msgs
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing participants", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})

		_, err := svc.SendMessage(ctx, &SendMessageRequest{To: 2, Content: "hi"})
		assert.Equal(t, errcode.ErrMissingParams, err)

		_, err = svc.SendMessage(ctx, &SendMessageRequest{CurrentUserId: 1, Content: "hi"})
		assert.Equal(t, errcode.ErrMissingParams, err)
	})

	t.Run("rejects blank text", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})

		_, err := svc.SendMessage(ctx, &SendMessageRequest{CurrentUserId: 1, To: 2, Content: "   "})
		assert.Equal(t, errcode.ErrEmptyContent, err)

		_, err = svc.SendMessage(ctx, &SendMessageRequest{CurrentUserId: 1, To: 2})
		assert.Equal(t, errcode.ErrEmptyContent, err)
	})

	t.Run("image messages need no text", func(t *testing.T) {
		conv := &fakeConvStore{conv: &entity.Conversation{Id: 10, ParticipantLow: 1, ParticipantHigh: 2}}
		msgs := &fakeMsgStore{}
		svc, _ := newTestChatService(conv, msgs)

		url := "/uploads/chat/a.png"
		resp, err := svc.SendMessage(ctx, &SendMessageRequest{
			CurrentUserId: 1,
			To:            2,
			Type:          constant.MsgTypeImage,
			ImageUrl:      &url,
		})
		require.NoError(t, err)
		assert.Equal(t, constant.MsgTypeImage, resp.Message.Type)
	})

	t.Run("persists and notifies both participants", func(t *testing.T) {
		conv := &fakeConvStore{conv: &entity.Conversation{Id: 10, ParticipantLow: 1, ParticipantHigh: 2}}
		msgs := &fakeMsgStore{}
		svc, pusher := newTestChatService(conv, msgs)

		resp, err := svc.SendMessage(ctx, &SendMessageRequest{CurrentUserId: 2, To: 1, Content: "hello"})
		require.NoError(t, err)

		assert.Equal(t, int64(10), resp.ConversationId)
		assert.Equal(t, constant.MsgTypeText, resp.Message.Type)
		assert.Equal(t, int64(2), resp.Message.SenderId)
		assert.Equal(t, int64(1), resp.Message.ReceiverId)

		// last-message pointer advanced to the new row
		assert.Equal(t, resp.Message.Id, conv.touchedMsg)

		require.Len(t, pusher.pushed, 1)
		push := pusher.pushed[0]
		assert.Equal(t, constant.EventNewMessage, push.event)
		assert.ElementsMatch(t, []int64{1, 2}, push.userIds)

		event, ok := push.payload.(*NewMessageEvent)
		require.True(t, ok)
		assert.Equal(t, int64(10), event.ConversationId)
		assert.Equal(t, resp.Message, event.Message)
	})

	t.Run("storage failure maps to server error", func(t *testing.T) {
		conv := &fakeConvStore{conv: &entity.Conversation{Id: 10}}
		msgs := &fakeMsgStore{createErr: errors.New("db down")}
		svc, pusher := newTestChatService(conv, msgs)

		_, err := svc.SendMessage(ctx, &SendMessageRequest{CurrentUserId: 1, To: 2, Content: "hi"})
		assert.Equal(t, errcode.ErrServer, err)
		assert.Empty(t, pusher.pushed)
	})
}

func TestChatService_History(t *testing.T) {
	ctx := context.Background()
	conversation := &entity.Conversation{Id: 7, ParticipantLow: 1, ParticipantHigh: 2}

	t.Run("rejects missing user ids", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})
		_, err := svc.History(ctx, 0, 2, &PageQuery{})
		assert.Equal(t, errcode.ErrMissingUserId, err)
	})

	t.Run("page mode on first load", func(t *testing.T) {
		msgs := &fakeMsgStore{offsetRows: descMessages(7, 5, 4, 3)}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		resp, err := svc.History(ctx, 1, 2, &PageQuery{})
		require.NoError(t, err)

		assert.Equal(t, "page", resp.Pagination.Mode)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.Equal(t, defaultPageSize, resp.Pagination.PageSize)
		assert.Equal(t, 0, msgs.listOffset)
		assert.Equal(t, defaultPageSize+1, msgs.listLimit)
		assert.False(t, resp.HasMore)

		// rows come back ascending even though the store returns them descending
		require.Len(t, resp.Messages, 3)
		assert.Equal(t, int64(3), resp.Messages[0].Id)
		assert.Equal(t, int64(5), resp.Messages[2].Id)

		require.NotNil(t, resp.Pagination.BeforeIdNext)
		assert.Equal(t, int64(3), *resp.Pagination.BeforeIdNext)
	})

	t.Run("page offset for later pages", func(t *testing.T) {
		msgs := &fakeMsgStore{}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		_, err := svc.History(ctx, 1, 2, &PageQuery{Page: 3, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 20, msgs.listOffset)
		assert.Equal(t, 11, msgs.listLimit)
	})

	t.Run("cursor mode wins when beforeId set", func(t *testing.T) {
		msgs := &fakeMsgStore{beforeRows: descMessages(7, 40, 39)}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		resp, err := svc.History(ctx, 1, 2, &PageQuery{BeforeId: 41, Page: 5, PageSize: 10})
		require.NoError(t, err)

		assert.Equal(t, "cursor", resp.Pagination.Mode)
		assert.Equal(t, int64(41), msgs.listBeforeId)
		assert.Equal(t, 11, msgs.listLimit)
	})

	t.Run("over-fetch detects more history", func(t *testing.T) {
		// exactly pageSize+1 rows means one page plus proof of older history
		msgs := &fakeMsgStore{beforeRows: descMessages(7, 6, 5, 4)}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		resp, err := svc.History(ctx, 1, 2, &PageQuery{BeforeId: 7, PageSize: 2})
		require.NoError(t, err)

		assert.True(t, resp.HasMore)
		require.Len(t, resp.Messages, 2)
		assert.Equal(t, int64(5), resp.Messages[0].Id)
		assert.Equal(t, int64(6), resp.Messages[1].Id)
		require.NotNil(t, resp.Pagination.BeforeIdNext)
		assert.Equal(t, int64(5), *resp.Pagination.BeforeIdNext)
	})

	t.Run("exactly one page is not more", func(t *testing.T) {
		msgs := &fakeMsgStore{beforeRows: descMessages(7, 6, 5)}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		resp, err := svc.History(ctx, 1, 2, &PageQuery{BeforeId: 7, PageSize: 2})
		require.NoError(t, err)
		assert.False(t, resp.HasMore)
		assert.Len(t, resp.Messages, 2)
	})

	t.Run("empty conversation", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, &fakeMsgStore{})

		resp, err := svc.History(ctx, 1, 2, &PageQuery{})
		require.NoError(t, err)
		assert.Empty(t, resp.Messages)
		assert.False(t, resp.HasMore)
		assert.Nil(t, resp.Pagination.BeforeIdNext)
	})

	t.Run("caps oversized page size", func(t *testing.T) {
		msgs := &fakeMsgStore{}
		svc, _ := newTestChatService(&fakeConvStore{conv: conversation}, msgs)

		resp, err := svc.History(ctx, 1, 2, &PageQuery{PageSize: 5000})
		require.NoError(t, err)
		assert.Equal(t, maxPageSize, resp.Pagination.PageSize)
		assert.Equal(t, maxPageSize+1, msgs.listLimit)
	})
}

func TestChatService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing ids", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})
		assert.Equal(t, errcode.ErrMissingParams, svc.MarkRead(ctx, 0, 2))
		assert.Equal(t, errcode.ErrMissingParams, svc.MarkRead(ctx, 1, 0))
	})

	t.Run("stamps messages from the other user", func(t *testing.T) {
		msgs := &fakeMsgStore{}
		svc, _ := newTestChatService(&fakeConvStore{}, msgs)

		require.NoError(t, svc.MarkRead(ctx, 1, 2))

		// reader is the receiver; the peer is the sender whose rows get stamped
		assert.Equal(t, int64(2), msgs.markedSender)
		assert.Equal(t, int64(1), msgs.markedRecv)
	})
}

func TestChatService_UnreadSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing user id", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})
		_, err := svc.UnreadSummary(ctx, 0)
		assert.Equal(t, errcode.ErrMissingUserId, err)
	})

	t.Run("nothing unread returns empty list", func(t *testing.T) {
		svc, _ := newTestChatService(&fakeConvStore{}, &fakeMsgStore{})

		entries, err := svc.UnreadSummary(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("one entry per peer with latest preview", func(t *testing.T) {
		msgs := &fakeMsgStore{
			counts: []*entity.UnreadCountRow{
				{SenderId: 2, Count: 3},
				{SenderId: 5, Count: 1},
			},
			// newest first, as the store returns them
			exchanged: []*entity.Message{
				{Id: 30, SenderId: 1, ReceiverId: 2, Type: constant.MsgTypeText, Content: "see you", CreatedAt: 3000},
				{Id: 29, SenderId: 2, ReceiverId: 1, Type: constant.MsgTypeText, Content: "older", CreatedAt: 2900},
				{Id: 20, SenderId: 5, ReceiverId: 1, Type: constant.MsgTypeImage, CreatedAt: 2000},
				{Id: 10, SenderId: 9, ReceiverId: 1, Type: constant.MsgTypeText, Content: "read already", CreatedAt: 1000},
			},
		}
		svc, _ := newTestChatService(&fakeConvStore{}, msgs)

		entries, err := svc.UnreadSummary(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// the preview may be the reader's own latest message in the thread
		assert.Equal(t, int64(2), entries[0].OtherUserId)
		assert.Equal(t, int64(3), entries[0].UnreadCount)
		assert.Equal(t, "see you", entries[0].LastMessage)
		assert.Equal(t, int64(3000), entries[0].LastTime)

		// image messages preview as a placeholder
		assert.Equal(t, int64(5), entries[1].OtherUserId)
		assert.Equal(t, "[Image]", entries[1].LastMessage)
		assert.Equal(t, int64(2000), entries[1].LastTime)
	})
}

package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/internal/upload"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/response"
)

// ChatHandler handles chat messaging requests. Chat endpoints identify the
// caller by the currentUserId field carried in the request itself; the client
// owns that contract.
type ChatHandler struct {
	chatService     *service.ChatService
	presenceService *service.PresenceService
	saver           *upload.Saver
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *service.ChatService, presenceService *service.PresenceService, saver *upload.Saver) *ChatHandler {
	return &ChatHandler{chatService: chatService, presenceService: presenceService, saver: saver}
}

// SendMessage handles POST /api/chat/messages
func (h *ChatHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	var req service.SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	resp, err := h.chatService.SendMessage(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, resp)
}

// GetMessages handles GET /api/chat/messages/:otherUserId
func (h *ChatHandler) GetMessages(ctx context.Context, c *app.RequestContext) {
	currentUserId, _ := strconv.ParseInt(string(c.Query("currentUserId")), 10, 64)
	otherUserId, _ := strconv.ParseInt(c.Param("otherUserId"), 10, 64)
	if currentUserId <= 0 || otherUserId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingUserId)
		return
	}

	query := &service.PageQuery{}
	query.BeforeId, _ = strconv.ParseInt(string(c.Query("beforeId")), 10, 64)
	query.Page, _ = strconv.Atoi(string(c.Query("page")))
	query.PageSize, _ = strconv.Atoi(string(c.Query("pageSize")))

	resp, err := h.chatService.History(ctx, currentUserId, otherUserId, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, resp)
}

// markReadRequest is the POST /api/chat/messages/read body
type markReadRequest struct {
	CurrentUserId int64 `json:"currentUserId"`
	OtherUserId   int64 `json:"otherUserId"`
}

// MarkRead handles POST /api/chat/messages/read
func (h *ChatHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	var req markReadRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.chatService.MarkRead(ctx, req.CurrentUserId, req.OtherUserId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// UnreadSummary handles GET /api/chat/unread-summary
func (h *ChatHandler) UnreadSummary(ctx context.Context, c *app.RequestContext) {
	currentUserId, _ := strconv.ParseInt(string(c.Query("currentUserId")), 10, 64)
	if currentUserId <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingUserId)
		return
	}

	summary, err := h.chatService.UnreadSummary(ctx, currentUserId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, summary)
}

// Presence handles GET /api/chat/presence. The response is the durable
// offline baseline; clients overlay live presence events on top of it.
func (h *ChatHandler) Presence(ctx context.Context, c *app.RequestContext) {
	idsParam := string(c.Query("userIds"))
	if idsParam == "" {
		response.JSON(ctx, c, []struct{}{})
		return
	}

	var userIds []int64
	for _, part := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil && id > 0 {
			userIds = append(userIds, id)
		}
	}

	result, err := h.presenceService.BatchLookup(ctx, userIds)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, result)
}

// UploadImage handles POST /api/chat/upload-image
func (h *ChatHandler) UploadImage(ctx context.Context, c *app.RequestContext) {
	file, err := c.FormFile("image")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	url, err := h.saver.SaveImage(ctx, file, "chat")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]interface{}{"success": true, "url": url})
}

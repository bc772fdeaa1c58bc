package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/internal/upload"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/response"
)

// StaffHandler handles staff directory requests
type StaffHandler struct {
	staffService *service.StaffService
	saver        *upload.Saver
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService *service.StaffService, saver *upload.Saver) *StaffHandler {
	return &StaffHandler{staffService: staffService, saver: saver}
}

// ListPublic handles GET /api/staff (visible members only)
func (h *StaffHandler) ListPublic(ctx context.Context, c *app.RequestContext) {
	staff, err := h.staffService.ListVisible(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, staff)
}

// List handles GET /admin/staff
func (h *StaffHandler) List(ctx context.Context, c *app.RequestContext) {
	staff, err := h.staffService.List(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, staff)
}

// Create handles POST /admin/staff
func (h *StaffHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req service.SaveStaffRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	staff, err := h.staffService.Create(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, staff)
}

// Update handles PUT /admin/staff/:id
func (h *StaffHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.SaveStaffRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	staff, err := h.staffService.Update(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, staff)
}

// visibilityRequest is the PATCH /admin/staff/:id/visibility body
type visibilityRequest struct {
	Visible bool `json:"visible"`
}

// SetVisibility handles PATCH /admin/staff/:id/visibility
func (h *StaffHandler) SetVisibility(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req visibilityRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.staffService.SetVisibility(ctx, id, req.Visible); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// Delete handles DELETE /admin/staff/:id
func (h *StaffHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.staffService.Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// UploadAvatar handles POST /admin/staff/upload-avatar
func (h *StaffHandler) UploadAvatar(ctx context.Context, c *app.RequestContext) {
	file, err := c.FormFile("avatar")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	url, err := h.saver.SaveImage(ctx, file, "staff")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]interface{}{"success": true, "url": url})
}

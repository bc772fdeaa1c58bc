package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/internal/middleware"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/response"
)

// BookingHandler handles booking workflow requests
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req service.CreateBookingRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}
	req.UserId = middleware.GetUserId(c)

	booking, err := h.bookingService.Create(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, booking)
}

// ListAll handles GET /admin/bookings
func (h *BookingHandler) ListAll(ctx context.Context, c *app.RequestContext) {
	bookings, err := h.bookingService.ListAll(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, bookings)
}

// ListMine handles GET /api/bookings/mine
func (h *BookingHandler) ListMine(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	bookings, err := h.bookingService.ListByUser(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, bookings)
}

// Edit handles PUT /api/bookings/:id
func (h *BookingHandler) Edit(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.EditBookingRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.bookingService.Edit(ctx, id, middleware.GetUserId(c), &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// updateStatusRequest is the admin review decision body
type updateStatusRequest struct {
	Status      string `json:"status"`
	ManagerNote string `json:"managerNote"`
}

// UpdateStatus handles PATCH /admin/bookings/:id/status
func (h *BookingHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req updateStatusRequest
	if err := c.BindJSON(&req); err != nil || req.Status == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.bookingService.UpdateStatus(ctx, id, req.Status, req.ManagerNote); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// Cancel handles POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.bookingService.Cancel(ctx, id, middleware.GetUserId(c)); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// Delete handles DELETE /admin/bookings/:id
func (h *BookingHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.bookingService.Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

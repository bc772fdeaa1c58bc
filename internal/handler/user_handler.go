package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/internal/middleware"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/internal/upload"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/response"
)

// UserHandler handles user profile and admin user management requests
type UserHandler struct {
	userService *service.UserService
	saver       *upload.Saver
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, saver *upload.Saver) *UserHandler {
	return &UserHandler{userService: userService, saver: saver}
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	user, err := h.userService.GetProfile(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, user)
}

// UpdateProfile handles PUT /user/profile
func (h *UserHandler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	var req service.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, user)
}

// UploadAvatar handles POST /user/avatar
func (h *UserHandler) UploadAvatar(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	url, err := h.saver.SaveImage(ctx, file, "avatars")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userId, &service.UpdateProfileRequest{Avatar: url})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, user)
}

// List handles GET /admin/users
func (h *UserHandler) List(ctx context.Context, c *app.RequestContext) {
	users, err := h.userService.List(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, users)
}

// Create handles POST /admin/users
func (h *UserHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req service.CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, user)
}

// Update handles PUT /admin/users/:id
func (h *UserHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, user)
}

// Delete handles DELETE /admin/users/:id
func (h *UserHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.userService.Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

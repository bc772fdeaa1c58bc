package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/internal/middleware"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/internal/upload"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/response"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
	saver       *upload.Saver
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, saver *upload.Saver) *AuthHandler {
	return &AuthHandler{authService: authService, saver: saver}
}

// Register handles POST /auth/register. Accepts JSON or multipart with an
// optional avatar file.
func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req service.RegisterRequest

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		// Multipart submission with avatar upload
		req.FirstName = string(c.PostForm("firstName"))
		req.LastName = string(c.PostForm("lastName"))
		req.Email = string(c.PostForm("email"))
		req.Phone = string(c.PostForm("phone"))
		req.Password = string(c.PostForm("password"))
		req.Address = string(c.PostForm("address"))
		req.Dob = string(c.PostForm("dob"))

		url, err := h.saver.SaveImage(ctx, file, "avatars")
		if err != nil {
			response.Error(ctx, c, err)
			return
		}
		req.Avatar = url
	} else if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req service.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, resp)
}

// changePasswordRequest is the POST /auth/change-password body
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	var req changePasswordRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.authService.ChangePassword(ctx, userId, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// deleteAccountRequest is the POST /auth/delete-account body
type deleteAccountRequest struct {
	Password string `json:"password"`
}

// DeleteAccount handles POST /auth/delete-account
func (h *AuthHandler) DeleteAccount(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)

	var req deleteAccountRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.authService.DeleteAccount(ctx, userId, req.Password); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

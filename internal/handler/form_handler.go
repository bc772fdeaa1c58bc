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

// FormHandler handles verification form requests
type FormHandler struct {
	formService *service.FormService
	saver       *upload.Saver
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(formService *service.FormService, saver *upload.Saver) *FormHandler {
	return &FormHandler{formService: formService, saver: saver}
}

// Submit handles POST /forms. The submission arrives as multipart: text
// fields plus the four required document images and optional extra documents.
func (h *FormHandler) Submit(ctx context.Context, c *app.RequestContext) {
	req := service.SubmitFormRequest{
		UserId:          middleware.GetUserId(c),
		GhanaCardNumber: string(c.PostForm("ghanaCardNumber")),
		LicenseNumber:   string(c.PostForm("licenseNumber")),
		BookingReason:   string(c.PostForm("bookingReason")),
		EmergencyName:   string(c.PostForm("emergencyName")),
		EmergencyPhone:  string(c.PostForm("emergencyPhone")),
	}

	var err error
	if req.GhanaCardFront, err = h.saveFormFile(ctx, c, "ghanaCardFront"); err != nil {
		response.Error(ctx, c, err)
		return
	}
	if req.GhanaCardBack, err = h.saveFormFile(ctx, c, "ghanaCardBack"); err != nil {
		response.Error(ctx, c, err)
		return
	}
	if req.LicenseFront, err = h.saveFormFile(ctx, c, "licenseFront"); err != nil {
		response.Error(ctx, c, err)
		return
	}
	if req.LicenseBack, err = h.saveFormFile(ctx, c, "licenseBack"); err != nil {
		response.Error(ctx, c, err)
		return
	}

	if form, ferr := c.MultipartForm(); ferr == nil {
		if others := form.File["otherDocuments"]; len(others) > 0 {
			urls, err := h.saver.SaveImages(ctx, others, "forms")
			if err != nil {
				response.Error(ctx, c, err)
				return
			}
			req.OtherDocuments = urls
		}
	}

	result, err := h.formService.Submit(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, result)
}

// Update handles PUT /forms/:id. Files are optional on update; absent
// documents keep their stored paths.
func (h *FormHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	req := service.SubmitFormRequest{
		GhanaCardNumber: string(c.PostForm("ghanaCardNumber")),
		LicenseNumber:   string(c.PostForm("licenseNumber")),
		BookingReason:   string(c.PostForm("bookingReason")),
		EmergencyName:   string(c.PostForm("emergencyName")),
		EmergencyPhone:  string(c.PostForm("emergencyPhone")),
	}

	for field, dst := range map[string]*string{
		"ghanaCardFront": &req.GhanaCardFront,
		"ghanaCardBack":  &req.GhanaCardBack,
		"licenseFront":   &req.LicenseFront,
		"licenseBack":    &req.LicenseBack,
	} {
		if file, ferr := c.FormFile(field); ferr == nil && file != nil {
			url, serr := h.saver.SaveImage(ctx, file, "forms")
			if serr != nil {
				response.Error(ctx, c, serr)
				return
			}
			*dst = url
		}
	}

	if err := h.formService.Update(ctx, id, middleware.GetRole(c), &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// ListAll handles GET /admin/forms
func (h *FormHandler) ListAll(ctx context.Context, c *app.RequestContext) {
	forms, err := h.formService.ListAll(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, forms)
}

// GetMine handles GET /forms/mine (latest submission, null when none)
func (h *FormHandler) GetMine(ctx context.Context, c *app.RequestContext) {
	form, err := h.formService.GetByUser(ctx, middleware.GetUserId(c))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, form)
}

// Get handles GET /admin/forms/:id
func (h *FormHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	form, err := h.formService.Get(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, form)
}

// formStatusRequest is the review decision body
type formStatusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// UpdateStatus handles PATCH /admin/forms/:id/status
func (h *FormHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req formStatusRequest
	if err := c.BindJSON(&req); err != nil || req.Status == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	if err := h.formService.UpdateStatus(ctx, id, req.Status, req.AdminNotes); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// Delete handles DELETE /admin/forms/:id
func (h *FormHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.formService.Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// saveFormFile stores one required document image
func (h *FormHandler) saveFormFile(ctx context.Context, c *app.RequestContext, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil || file == nil {
		return "", errcode.ErrMissingParams
	}
	return h.saver.SaveImage(ctx, file, "forms")
}

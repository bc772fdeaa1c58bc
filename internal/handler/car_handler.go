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

// CarHandler handles car inventory requests
type CarHandler struct {
	carService *service.CarService
	saver      *upload.Saver
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(carService *service.CarService, saver *upload.Saver) *CarHandler {
	return &CarHandler{carService: carService, saver: saver}
}

// List handles GET /api/cars
func (h *CarHandler) List(ctx context.Context, c *app.RequestContext) {
	cars, err := h.carService.List(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, cars)
}

// Get handles GET /api/cars/:id
func (h *CarHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	car, err := h.carService.Get(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, car)
}

// Create handles POST /api/cars
func (h *CarHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req service.SaveCarRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	car, err := h.carService.Create(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, car)
}

// Update handles PUT /api/cars/:id
func (h *CarHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.SaveCarRequest
	if err := c.BindJSON(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrMissingParams)
		return
	}

	car, err := h.carService.Update(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, car)
}

// Delete handles DELETE /api/cars/:id
func (h *CarHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.carService.Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]bool{"success": true})
}

// UploadImage handles POST /api/cars/upload-image (single main image)
func (h *CarHandler) UploadImage(ctx context.Context, c *app.RequestContext) {
	file, err := c.FormFile("image")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	url, err := h.saver.SaveImage(ctx, file, "cars")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]interface{}{"success": true, "url": url})
}

// UploadGallery handles POST /api/cars/upload-gallery (multiple images)
func (h *CarHandler) UploadGallery(ctx context.Context, c *app.RequestContext) {
	form, err := c.MultipartForm()
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		response.ErrorWithCode(ctx, c, errcode.ErrNoFile)
		return
	}

	urls, err := h.saver.SaveImages(ctx, files, "cars")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.JSON(ctx, c, map[string]interface{}{"success": true, "urls": urls})
}

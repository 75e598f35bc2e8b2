package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipez/backend/internal/service"
)

// maxPhotoBytes caps uploads at 5 MiB.
const maxPhotoBytes = 5 << 20

// ImageHandler accepts recipe photo uploads and stores them in the object
// store. Only the returned URL ends up in the recipe record.
type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

func (h *ImageHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/recipes/photo", h.UploadPhoto)
}

func (h *ImageHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a photo file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo must be 5MB or smaller"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.imageService.UploadRecipePhoto(c.Request.Context(), data, contentType)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bazely/bazely-backend/internal/errors"
	"github.com/bazely/bazely-backend/internal/middleware"
	"github.com/bazely/bazely-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // store_logos or product_images
}

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// GeneratePresignedURL hands out a presigned S3 PUT URL for a store logo or
// product image upload
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := req.Folder
	switch folder {
	case storage.FolderStoreLogos, storage.FolderProductImages:
	case "":
		folder = storage.FolderStoreLogos
	default:
		errors.BadRequest(c, errors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key":    response.Key,
		"folder": folder,
	})

	c.JSON(http.StatusOK, response)
}

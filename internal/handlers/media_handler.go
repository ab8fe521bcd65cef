package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amandajiang259/Yapp/internal/models"
	"github.com/amandajiang259/Yapp/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.uber.org/zap"
)

// maxImageBytes caps decoded image payloads at 10 MiB.
const maxImageBytes = 10 << 20

// MediaHandler handles image and video upload/download HTTP requests
type MediaHandler struct {
	mediaRepository repositories.MediaRepository
	logger          *zap.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaRepo repositories.MediaRepository, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{mediaRepository: mediaRepo, logger: logger}
}

// RegisterMediaRoutes registers media-related routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/images", h.UploadImage)
	g.POST("/videos", h.UploadVideo)
	g.GET("/files/:filename", h.GetFile)
}

// UploadImage stores a base64-encoded image for the authenticated user
func (h *MediaHandler) UploadImage(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UploadImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contentType, payload := splitDataURL(req.ImageData)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image data must be base64 encoded")
	}
	if len(data) > maxImageBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image too large")
	}

	filename := fmt.Sprintf("%s-%d", uid, time.Now().UnixNano())
	file, err := h.mediaRepository.UploadImage(c.Request().Context(), filename, data, uid, contentType, req.Tags)
	if err != nil {
		h.logger.Error("image upload failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
	}
	return c.JSON(http.StatusCreated, file)
}

// UploadVideo stores a multipart video upload for the authenticated user
func (h *MediaHandler) UploadVideo(c echo.Context) error {
	uid := currentUserID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing video file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read video file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	filename := fmt.Sprintf("%s-%d-%s", uid, time.Now().UnixNano(), fileHeader.Filename)
	file, err := h.mediaRepository.UploadVideo(c.Request().Context(), filename, src, uid, contentType)
	if err != nil {
		h.logger.Error("video upload failed", zap.String("user_id", uid), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store video")
	}
	return c.JSON(http.StatusCreated, file)
}

// GetFile streams a stored file by filename
func (h *MediaHandler) GetFile(c echo.Context) error {
	filename := c.Param("filename")
	data, contentType, err := h.mediaRepository.Download(c.Request().Context(), filename)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "File not found")
		}
		h.logger.Error("file download failed", zap.String("filename", filename), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load file")
	}
	return c.Blob(http.StatusOK, contentType, data)
}

// splitDataURL separates an optional data-URL prefix
// ("data:image/png;base64,") from the base64 payload.
func splitDataURL(s string) (contentType, payload string) {
	contentType = "image/png"
	payload = s
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ";base64,"); idx > 5 {
			contentType = s[5:idx]
			payload = s[idx+len(";base64,"):]
		}
	}
	return contentType, payload
}

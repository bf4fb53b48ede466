package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/http/handlers/common"
	"github.com/pathwai/pathwai-backend/internal/service"
)

// MediaHandler управляет загрузкой и удалением изображений.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler создаёт новый хэндлер.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadAvatar обрабатывает POST /api/media/avatar. Ответ: {url}.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, h.media.UploadAvatar, func(res *service.UploadResult) any {
		return gin.H{"url": res.URL}
	})
}

// UploadPhoto обрабатывает POST /api/media/photos.
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	h.upload(c, h.media.UploadImage, func(res *service.UploadResult) any {
		return res
	})
}

// DeleteMedia обрабатывает DELETE /api/media/:id.
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}
	mediaID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "Invalid media id")
		return
	}

	if err := h.media.Delete(c.Request.Context(), userID, mediaID); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type uploadFunc func(ctx context.Context, userID uuid.UUID, r io.Reader) (*service.UploadResult, error)

func (h *MediaHandler) upload(c *gin.Context, save uploadFunc, render func(*service.UploadResult) any) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "File is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		common.RespondBadRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	res, err := save(c.Request.Context(), userID, file)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, render(res))
}

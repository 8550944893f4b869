package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/http/response"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

type ImageHandler struct {
	log    *logger.Logger
	render services.RenderService
}

func NewImageHandler(log *logger.Logger, render services.RenderService) *ImageHandler {
	return &ImageHandler{log: log.With("handler", "ImageHandler"), render: render}
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Photo  string `json:"photo"`
}

// POST /generate-image
func (h *ImageHandler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBodyBytes)
	var req generateImageRequest
	if !bindJSON(c, &req) {
		return
	}
	img, err := h.render.GenerateImage(c.Request.Context(), req.Prompt, req.Photo)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"image_data": img})
}

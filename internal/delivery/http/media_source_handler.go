package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newslens/internal/repository"
	"newslens/pkg/logger"
)

// MediaSourceHandler handles HTTP requests for media source metadata.
type MediaSourceHandler struct {
	mediaRepo repository.MediaSourceRepository
	logger    *logger.Logger
}

// NewMediaSourceHandler creates a new MediaSourceHandler.
func NewMediaSourceHandler(mediaRepo repository.MediaSourceRepository, logger *logger.Logger) *MediaSourceHandler {
	return &MediaSourceHandler{mediaRepo: mediaRepo, logger: logger}
}

// RegisterRoutes registers the media source routes to the Echo group.
func (h *MediaSourceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetMediaSources)
}

// GetMediaSources returns all registered media sources with their ratings.
func (h *MediaSourceHandler) GetMediaSources(c echo.Context) error {
	sources, err := h.mediaRepo.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to query media sources", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to query media sources"})
	}

	return c.JSON(http.StatusOK, echo.Map{"count": len(sources), "media_sources": sources})
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newslens/internal/dto"
	"newslens/internal/repository"
	"newslens/pkg/logger"
)

// AnalysisHandler handles HTTP requests for daily analyses.
type AnalysisHandler struct {
	analysisRepo repository.AnalysisRepository
	logger       *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisRepo repository.AnalysisRepository, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysisRepo: analysisRepo, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAnalyses)
}

// GetAnalyses returns analyses filtered by source and analysis day.
func (h *AnalysisHandler) GetAnalyses(c echo.Context) error {
	var filter dto.AnalysisFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid query parameters"})
	}

	analyses, err := h.analysisRepo.Search(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Failed to query analyses", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to query analyses"})
	}

	return c.JSON(http.StatusOK, echo.Map{"count": len(analyses), "analyses": analyses})
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newslens/internal/dto"
	"newslens/internal/repository"
	"newslens/pkg/logger"
)

// ArticleHandler handles HTTP requests for collected articles.
type ArticleHandler struct {
	articleRepo repository.ArticleRepository
	logger      *logger.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleRepo repository.ArticleRepository, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{articleRepo: articleRepo, logger: logger}
}

// RegisterRoutes registers the article routes to the Echo group.
func (h *ArticleHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetArticles)
}

// GetArticles returns articles filtered by source, publication day and a
// keyword over the normalized content.
func (h *ArticleHandler) GetArticles(c echo.Context) error {
	var filter dto.ArticleFilter
	if err := c.Bind(&filter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid query parameters"})
	}

	articles, err := h.articleRepo.Search(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Failed to query articles", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to query articles"})
	}

	return c.JSON(http.StatusOK, echo.Map{"count": len(articles), "articles": articles})
}

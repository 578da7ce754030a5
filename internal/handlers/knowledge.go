package handlers

import (
	"net/http"
	"strings"

	"opsassistant/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// KnowledgeHandler lists the knowledge base
// @Summary List knowledge base
// @Tags knowledge
// @Produce json
// @Success 200 {object} models.KnowledgeListResponse
// @Router /api/knowledge [get]
func KnowledgeHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := api.Knowledge(c.Request().Context())
		if err != nil {
			logger.Warn().Err(err).Msg("Knowledge base unavailable, returning empty list")
			return c.JSON(http.StatusOK, models.KnowledgeListResponse{
				Items:    []models.KnowledgeItem{},
				Degraded: true,
				Error:    err.Error(),
			})
		}

		return c.JSON(http.StatusOK, models.KnowledgeListResponse{Items: items})
	}
}

// AddKnowledgeHandler creates a knowledge item
// @Summary Add knowledge item
// @Tags knowledge
// @Accept json
// @Produce json
// @Param request body models.KnowledgeRequest true "Knowledge item"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/knowledge [post]
func AddKnowledgeHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.KnowledgeRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request format")
		}

		req.Topic = strings.TrimSpace(req.Topic)
		req.Content = strings.TrimSpace(req.Content)
		if req.Topic == "" || req.Content == "" {
			return errorJSON(c, http.StatusBadRequest, "Topic and content are required")
		}

		resp, err := api.AddKnowledge(c.Request().Context(), req)
		if err != nil {
			logger.Error().Err(err).Str("topic", req.Topic).Msg("Failed to add knowledge item")
			return backendError(c, err)
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// DeleteKnowledgeHandler removes a knowledge item
// @Summary Delete knowledge item
// @Tags knowledge
// @Produce json
// @Param id path int true "Knowledge item id"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/knowledge/{id} [delete]
func DeleteKnowledgeHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "id must be an integer")
		}

		resp, err := api.DeleteKnowledge(c.Request().Context(), id)
		if err != nil {
			logger.Error().Err(err).Int("id", id).Msg("Failed to delete knowledge item")
			return backendError(c, err)
		}

		return c.JSON(http.StatusOK, resp)
	}
}

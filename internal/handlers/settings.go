package handlers

import (
	"net/http"
	"strings"

	"opsassistant/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SettingsHandler reads the AI settings
// @Summary Get AI settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.SettingsResponse
// @Router /api/settings [get]
func SettingsHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings, err := api.Settings(c.Request().Context())
		if err != nil {
			logger.Warn().Err(err).Msg("Settings unavailable, returning defaults")
			return c.JSON(http.StatusOK, models.SettingsResponse{
				Settings: models.DefaultSettings(),
				Degraded: true,
				Error:    err.Error(),
			})
		}

		if settings.Tone == "" {
			settings.Tone = models.ToneProfessional
		}
		return c.JSON(http.StatusOK, models.SettingsResponse{Status: "success", Settings: settings})
	}
}

// SaveSettingsHandler writes the AI settings
// @Summary Save AI settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.AISettings true "Settings"
// @Success 200 {object} models.SettingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /api/settings [post]
func SaveSettingsHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.AISettings
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request format")
		}

		req.Tone = strings.TrimSpace(req.Tone)
		if req.Tone == "" {
			req.Tone = models.ToneProfessional
		}
		if req.HourlyRate != nil && *req.HourlyRate < 0 {
			return errorJSON(c, http.StatusBadRequest, "hourly_rate cannot be negative")
		}

		saved, err := api.SaveSettings(c.Request().Context(), req)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to save settings")
			return backendError(c, err)
		}

		return c.JSON(http.StatusOK, models.SettingsResponse{Status: "success", Settings: saved})
	}
}

package handlers

import (
	"net/http"

	"opsassistant/internal/models"
	"opsassistant/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AnalyticsHandler returns the dashboard summary
// @Summary Get analytics
// @Description Time and money saved, automated tasks and pending actions
// @Tags analytics
// @Produce json
// @Success 200 {object} models.AnalyticsResponse
// @Router /api/analytics [get]
func AnalyticsHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := api.Analytics(c.Request().Context())
		if err != nil {
			logger.Warn().Err(err).Msg("Analytics unavailable, returning empty summary")
			return c.JSON(http.StatusOK, models.AnalyticsResponse{
				Analytics: models.AnalyticsData{PendingActions: []models.PendingAction{}},
				Degraded:  true,
				Error:     err.Error(),
			})
		}

		return c.JSON(http.StatusOK, models.AnalyticsResponse{Analytics: data})
	}
}

// GmailStatusHandler reports whether a Gmail account is connected
// @Summary Gmail connection status
// @Tags gmail
// @Produce json
// @Success 200 {object} models.GmailStatusResponse
// @Router /api/gmail-status [get]
func GmailStatusHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		connected, err := api.GmailStatus(c.Request().Context())
		if err != nil {
			logger.Warn().Err(err).Msg("Gmail status unavailable")
			return c.JSON(http.StatusOK, models.GmailStatusResponse{Degraded: true, Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.GmailStatusResponse{Connected: connected})
	}
}

// LogoutHandler disconnects Gmail on the backend and ends the local session.
// The local session ends even when the backend call fails.
// @Summary Log out
// @Tags gmail
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/logout [post]
func LogoutHandler(api Backend, sessions *session.Manager, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp, backendErr := api.Logout(c.Request().Context())

		if err := sessions.End(c); err != nil {
			logger.Error().Err(err).Msg("Failed to clear session state")
			return errorJSON(c, http.StatusInternalServerError, "Failed to clear session: "+err.Error())
		}

		if backendErr != nil {
			logger.Error().Err(backendErr).Msg("Backend logout failed")
			return backendError(c, backendErr)
		}

		logger.Info().Msg("Logged out")
		return c.JSON(http.StatusOK, resp)
	}
}

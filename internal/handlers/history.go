package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"opsassistant/internal/emails"
	"opsassistant/internal/history"
	"opsassistant/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var errMinUrgency = errors.New("min_urgency must be an integer between 0 and 10")

func criteriaFromQuery(c echo.Context) (history.Criteria, error) {
	criteria := history.Criteria{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		Sentiment: c.QueryParam("sentiment"),
	}

	if raw := c.QueryParam("min_urgency"); raw != "" {
		urgency, err := strconv.Atoi(raw)
		if err != nil || urgency < 0 || urgency > 10 {
			return history.Criteria{}, errMinUrgency
		}
		criteria.MinUrgency = urgency
	}

	return criteria, nil
}

func historyRows(records []models.AnalyzedEmail, now time.Time, logger zerolog.Logger) []models.HistoryRow {
	rows := make([]models.HistoryRow, 0, len(records))
	for _, record := range records {
		items, err := record.ActionItems()
		if err != nil {
			logger.Warn().Err(err).Msg("Ignoring malformed action items")
			items = []models.ActionItem{}
		}

		plain := emails.PlainText(record.Body)
		rows = append(rows, models.HistoryRow{
			AnalyzedEmail: record,
			ActionItems:   items,
			PlainBody:     plain,
			Direction:     emails.Direction(record.Subject + " " + plain),
			RelativeTime:  history.RelativeTime(record.CreatedAt, now),
		})
	}
	return rows
}

// HistoryHandler returns the filtered history of analyzed emails
// @Summary Get analyzed email history
// @Description Filters the session's held history. Filters combine with AND.
// @Tags history
// @Produce json
// @Param search query string false "Case-insensitive match on sender, subject or summary"
// @Param category query string false "Category, All disables"
// @Param sentiment query string false "Sentiment, All disables"
// @Param min_urgency query int false "Minimum urgency (0-10), 0 disables"
// @Param refresh query bool false "Reload the history from the backend"
// @Success 200 {object} models.HistoryView
// @Failure 400 {object} models.ErrorResponse
// @Router /api/history [get]
func HistoryHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		criteria, err := criteriaFromQuery(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))

		held, loadErr := history.NewHolder(api, sess.Store, logger).Load(c.Request().Context(), refresh)
		filtered := history.Apply(held, criteria)

		view := models.HistoryView{
			Items:    historyRows(filtered, time.Now().UTC(), logger),
			Total:    len(held),
			Filtered: len(filtered),
		}
		if loadErr != nil {
			logger.Warn().Err(loadErr).Msg("History unavailable, returning empty view")
			view.Degraded = true
			view.Error = loadErr.Error()
		}

		return c.JSON(http.StatusOK, view)
	}
}

// ExportHistoryHandler downloads the filtered history as CSV
// @Summary Export history as CSV
// @Tags history
// @Produce text/csv
// @Param search query string false "Case-insensitive match on sender, subject or summary"
// @Param category query string false "Category, All disables"
// @Param sentiment query string false "Sentiment, All disables"
// @Param min_urgency query int false "Minimum urgency (0-10), 0 disables"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/history/export [get]
func ExportHistoryHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		criteria, err := criteriaFromQuery(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}

		held, err := history.NewHolder(api, sess.Store, logger).Load(c.Request().Context(), false)
		if err != nil {
			return backendError(c, err)
		}
		filtered := history.Apply(held, criteria)

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", history.ExportFilename))
		res.WriteHeader(http.StatusOK)

		if err := history.WriteCSV(res, filtered); err != nil {
			logger.Error().Err(err).Msg("Failed to write CSV export")
			return err
		}

		logger.Info().Int("rows", len(filtered)).Msg("History exported")
		return nil
	}
}

// SuggestedReplyHandler edits the suggested reply of a held history record
// @Summary Edit suggested reply
// @Tags history
// @Accept json
// @Produce json
// @Param id path int true "History record id"
// @Param request body models.SuggestedReplyRequest true "New suggested reply"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/history/{id}/reply [put]
func SuggestedReplyHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		id, err := idParam(c)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "id must be an integer")
		}

		var req models.SuggestedReplyRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request format")
		}

		holder := history.NewHolder(api, sess.Store, logger)
		if !holder.SetSuggestedReply(c.Request().Context(), id, req.SuggestedReply) {
			return errorJSON(c, http.StatusNotFound, fmt.Sprintf("email %d is not in the loaded history", id))
		}

		return c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Suggested reply updated"})
	}
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"opsassistant/internal/history"
	"opsassistant/internal/inbox"
	"opsassistant/internal/models"
	"opsassistant/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// inboxView renders the held inbox against the held history and selection
func inboxView(ctx context.Context, api Backend, sess *session.Session, state inbox.State, hideAnalyzed bool, logger zerolog.Logger) models.InboxView {
	held, err := history.NewHolder(api, sess.Store, logger).Load(ctx, false)
	if err != nil {
		logger.Warn().Err(err).Msg("Inbox rendered without history, analyzed flags unavailable")
	}
	index := history.NewIndex(held)

	selected := inbox.NewSelection(sess.Store, logger).IDs(ctx)
	rows := inbox.Rows(state.Messages, index, selected, hideAnalyzed)

	return models.InboxView{
		Messages:      rows,
		Total:         len(state.Messages),
		NextPageToken: state.NextPageToken,
		HasMore:       state.HasMore(),
		SelectedCount: len(selected),
		HideAnalyzed:  hideAnalyzed,
	}
}

func hideAnalyzedParam(c echo.Context) bool {
	hide, _ := strconv.ParseBool(c.QueryParam("hide_analyzed"))
	return hide
}

// InboxHandler returns the held inbox without contacting Gmail
// @Summary Get held inbox
// @Description Returns the inbox pages fetched in this session with analyzed and selection flags
// @Tags inbox
// @Produce json
// @Param hide_analyzed query bool false "Leave analyzed messages out of the rows"
// @Success 200 {object} models.InboxView
// @Router /api/inbox [get]
func InboxHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		ctx := c.Request().Context()
		state := inbox.NewPager(api, sess.Store, logger).Hydrate(ctx)
		return c.JSON(http.StatusOK, inboxView(ctx, api, sess, state, hideAnalyzedParam(c), logger))
	}
}

// InboxResetHandler discards the held inbox and fetches the first page
// @Summary Reset inbox
// @Tags inbox
// @Produce json
// @Param limit query int false "Page size (1-100)"
// @Param hide_analyzed query bool false "Leave analyzed messages out of the rows"
// @Success 200 {object} models.InboxView
// @Failure 503 {object} models.InboxView
// @Router /api/inbox/reset [post]
func InboxResetHandler(api Backend, pageSize int, logger zerolog.Logger) echo.HandlerFunc {
	return inboxFetchHandler(api, pageSize, logger, func(ctx context.Context, pager *inbox.Pager, limit int) (inbox.State, error) {
		return pager.Reset(ctx, limit)
	})
}

// InboxMoreHandler fetches the next inbox page and appends unseen messages
// @Summary Fetch more inbox messages
// @Tags inbox
// @Produce json
// @Param limit query int false "Page size (1-100)"
// @Param hide_analyzed query bool false "Leave analyzed messages out of the rows"
// @Success 200 {object} models.InboxView
// @Failure 503 {object} models.InboxView
// @Router /api/inbox/more [post]
func InboxMoreHandler(api Backend, pageSize int, logger zerolog.Logger) echo.HandlerFunc {
	return inboxFetchHandler(api, pageSize, logger, func(ctx context.Context, pager *inbox.Pager, limit int) (inbox.State, error) {
		return pager.FetchMore(ctx, limit)
	})
}

type inboxFetch func(ctx context.Context, pager *inbox.Pager, limit int) (inbox.State, error)

func inboxFetchHandler(api Backend, pageSize int, logger zerolog.Logger, fetch inboxFetch) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		limit, err := limitParam(c, pageSize)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "limit must be an integer")
		}

		ctx := c.Request().Context()
		pager := inbox.NewPager(api, sess.Store, logger)

		state, fetchErr := fetch(ctx, pager, limit)
		view := inboxView(ctx, api, sess, state, hideAnalyzedParam(c), logger)
		if fetchErr != nil {
			logger.Warn().Err(fetchErr).Str("session_id", sess.ID).Msg("Inbox fetch failed")
			view.Degraded = true
			view.Error = fetchErr.Error()
			return c.JSON(errorStatus(fetchErr), view)
		}

		logger.Info().
			Str("session_id", sess.ID).
			Int("held", len(state.Messages)).
			Bool("has_more", state.HasMore()).
			Msg("Inbox fetched")
		return c.JSON(http.StatusOK, view)
	}
}

// ToggleSelectionHandler flips the selection of one inbox message. Analyzed
// messages are never selected.
// @Summary Toggle inbox selection
// @Tags inbox
// @Produce json
// @Param id path string true "Gmail message id"
// @Success 200 {object} models.SelectionResponse
// @Router /api/inbox/selection/{id} [post]
func ToggleSelectionHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		id := c.Param("id")
		if id == "" {
			return errorJSON(c, http.StatusBadRequest, "message id is required")
		}

		ctx := c.Request().Context()
		held, err := history.NewHolder(api, sess.Store, logger).Load(ctx, false)
		if err != nil {
			logger.Warn().Err(err).Msg("Selection checked without history")
		}
		analyzed := history.NewIndex(held).Contains(id)

		selected, ids, err := inbox.NewSelection(sess.Store, logger).Toggle(ctx, id, analyzed)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "Failed to store selection: "+err.Error())
		}

		return c.JSON(http.StatusOK, models.SelectionResponse{
			ID:       id,
			Selected: selected,
			Analyzed: analyzed,
			IDs:      ids,
		})
	}
}

// AnalyzeSelectedHandler queues the selected inbox messages for analysis
// @Summary Analyze selected messages
// @Tags inbox
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/inbox/analyze-selected [post]
func AnalyzeSelectedHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := currentSession(c)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}

		ctx := c.Request().Context()
		holder := history.NewHolder(api, sess.Store, logger)
		selection := inbox.NewSelection(sess.Store, logger)

		held, err := holder.Load(ctx, false)
		if err != nil {
			logger.Warn().Err(err).Msg("Analyzing selection without history")
		}
		index := history.NewIndex(held)

		state := inbox.NewPager(api, sess.Store, logger).Hydrate(ctx)
		picked := inbox.Pick(state.Messages, selection.IDs(ctx), index.IsAnalyzed)
		if len(picked) == 0 {
			return errorJSON(c, http.StatusBadRequest, "No emails selected")
		}

		resp, err := api.AnalyzeBatch(ctx, picked)
		if err != nil {
			logger.Error().Err(err).Int("count", len(picked)).Msg("Batch analysis failed")
			return backendError(c, err)
		}

		if err := selection.Clear(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to clear selection")
		}
		if _, err := holder.Load(ctx, true); err != nil {
			logger.Warn().Err(err).Msg("Failed to refresh history after batch analysis")
		}

		logger.Info().Int("count", len(picked)).Msg("Batch analysis queued")
		return c.JSON(http.StatusOK, resp)
	}
}

// ConnectHandler starts the Gmail connection flow. The backend begins OAuth
// on the first inbox request, so a single-message fetch is issued before the
// connection status is read.
// @Summary Connect Gmail
// @Tags gmail
// @Produce json
// @Success 200 {object} models.GmailStatusResponse
// @Failure 503 {object} models.GmailStatusResponse
// @Router /api/connect [post]
func ConnectHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if _, err := api.Inbox(ctx, 1, ""); err != nil {
			logger.Warn().Err(err).Msg("Initial inbox fetch failed during connect")
		}

		connected, err := api.GmailStatus(ctx)
		if err != nil {
			return c.JSON(errorStatus(err), models.GmailStatusResponse{
				Degraded: true,
				Error:    err.Error(),
			})
		}

		return c.JSON(http.StatusOK, models.GmailStatusResponse{Connected: connected})
	}
}

package handlers

import (
	"net/http"
	"strings"

	"opsassistant/internal/history"
	"opsassistant/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AnalyzeEmailHandler runs AI analysis on a pasted email
// @Summary Analyze an email
// @Description Requires a connected Gmail account
// @Tags emails
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email to analyze"
// @Success 200 {object} models.EmailAnalysis
// @Failure 400 {object} models.ErrorResponse
// @Failure 412 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/analyze-email [post]
func AnalyzeEmailHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.EmailRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request format")
		}
		if strings.TrimSpace(req.Body) == "" {
			return errorJSON(c, http.StatusBadRequest, "Email body is required")
		}

		ctx := c.Request().Context()

		connected, err := api.GmailStatus(ctx)
		if err != nil {
			return backendError(c, err)
		}
		if !connected {
			return errorJSON(c, http.StatusPreconditionFailed, "Gmail is not connected")
		}

		analysis, err := api.AnalyzeEmail(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("sender", req.Sender).Msg("Email analysis failed")
			return backendError(c, err)
		}

		if sess, err := currentSession(c); err == nil {
			history.NewHolder(api, sess.Store, logger).Invalidate(ctx)
		}

		logger.Info().
			Str("category", analysis.Category).
			Int("urgency", analysis.Urgency).
			Msg("Email analyzed")
		return c.JSON(http.StatusOK, analysis)
	}
}

// bindReply decodes a reply payload and returns a validation message when it
// cannot be sent
func bindReply(c echo.Context) (models.ReplyRequest, string) {
	var req models.ReplyRequest
	if err := c.Bind(&req); err != nil {
		return req, "Invalid request format"
	}
	if strings.TrimSpace(req.To) == "" {
		return req, "Recipient is required"
	}
	if strings.TrimSpace(req.Body) == "" {
		return req, "Reply body is required"
	}
	return req, ""
}

// SendReplyHandler sends a reply and marks the history record as replied
// @Summary Send a reply
// @Tags emails
// @Accept json
// @Produce json
// @Param request body models.ReplyRequest true "Reply to send"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/send-reply [post]
func SendReplyHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, invalid := bindReply(c)
		if invalid != "" {
			return errorJSON(c, http.StatusBadRequest, invalid)
		}

		ctx := c.Request().Context()
		resp, err := api.SendReply(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("to", req.To).Msg("Failed to send reply")
			return backendError(c, err)
		}

		if req.EmailID != nil {
			if sess, err := currentSession(c); err == nil {
				if !history.NewHolder(api, sess.Store, logger).MarkReplied(ctx, *req.EmailID, req.Body) {
					logger.Debug().Int("email_id", *req.EmailID).Msg("Replied email not in held history")
				}
			}
		}

		logger.Info().Str("to", req.To).Msg("Reply sent")
		return c.JSON(http.StatusOK, resp)
	}
}

// CreateDraftHandler stores a reply as a Gmail draft
// @Summary Create a draft
// @Tags emails
// @Accept json
// @Produce json
// @Param request body models.ReplyRequest true "Draft to create"
// @Success 200 {object} models.StatusResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/create-draft [post]
func CreateDraftHandler(api Backend, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, invalid := bindReply(c)
		if invalid != "" {
			return errorJSON(c, http.StatusBadRequest, invalid)
		}

		resp, err := api.CreateDraft(c.Request().Context(), req)
		if err != nil {
			logger.Error().Err(err).Str("to", req.To).Msg("Failed to create draft")
			return backendError(c, err)
		}

		return c.JSON(http.StatusOK, resp)
	}
}

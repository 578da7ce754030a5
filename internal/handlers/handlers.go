// Package handlers serves the dashboard API. Passive views degrade to empty
// or default payloads flagged with "degraded"; user actions answer with a
// non-2xx status and an error body when the backend fails.
package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"opsassistant/internal/backend"
	"opsassistant/internal/models"
	"opsassistant/internal/session"

	"github.com/labstack/echo/v4"
)

// Inbox fetch limits
const (
	minInboxLimit = 1
	maxInboxLimit = 100
)

// Backend is the part of the backend API the dashboard uses
type Backend interface {
	Health(ctx context.Context) error
	GmailStatus(ctx context.Context) (bool, error)
	AnalyzeEmail(ctx context.Context, email models.EmailRequest) (models.EmailAnalysis, error)
	History(ctx context.Context) ([]models.AnalyzedEmail, error)
	Inbox(ctx context.Context, limit int, pageToken string) (models.InboxPage, error)
	AnalyzeBatch(ctx context.Context, messages []models.InboxMessage) (models.StatusResponse, error)
	SendReply(ctx context.Context, reply models.ReplyRequest) (models.StatusResponse, error)
	CreateDraft(ctx context.Context, reply models.ReplyRequest) (models.StatusResponse, error)
	Analytics(ctx context.Context) (models.AnalyticsData, error)
	Knowledge(ctx context.Context) ([]models.KnowledgeItem, error)
	AddKnowledge(ctx context.Context, item models.KnowledgeRequest) (models.StatusResponse, error)
	DeleteKnowledge(ctx context.Context, id int) (models.StatusResponse, error)
	Settings(ctx context.Context) (models.AISettings, error)
	SaveSettings(ctx context.Context, settings models.AISettings) (models.AISettings, error)
	Logout(ctx context.Context) (models.StatusResponse, error)
}

var _ Backend = (*backend.Client)(nil)

var errNoSession = errors.New("no session attached to request")

// errorStatus maps a backend error to the status returned to the dashboard.
// Timeouts are also wrapped as unavailable, so they are matched first.
func errorStatus(err error) int {
	var apiErr *backend.APIError
	var rejected *backend.RejectedError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout
	case errors.Is(err, backend.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Error: message})
}

func backendError(c echo.Context, err error) error {
	return errorJSON(c, errorStatus(err), err.Error())
}

func currentSession(c echo.Context) (*session.Session, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return nil, errNoSession
	}
	return sess, nil
}

// limitParam reads ?limit=, falling back to def and clamping to the allowed range
func limitParam(c echo.Context, def int) (int, error) {
	limit := def
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		limit = parsed
	}

	if limit < minInboxLimit {
		limit = minInboxLimit
	}
	if limit > maxInboxLimit {
		limit = maxInboxLimit
	}
	return limit, nil
}

func idParam(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"opsassistant/internal/models"
)

// Health pings the backend's health endpoint
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/health"}, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("backend reported status %q", resp.Status)
	}
	return nil
}

// GmailStatus reports whether the backend holds a Gmail token
func (c *Client) GmailStatus(ctx context.Context) (bool, error) {
	var resp struct {
		Connected bool `json:"connected"`
	}
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/api/gmail-status"}, &resp); err != nil {
		return false, err
	}
	return resp.Connected, nil
}

// AnalyzeEmail runs AI analysis on a single email
func (c *Client) AnalyzeEmail(ctx context.Context, email models.EmailRequest) (models.EmailAnalysis, error) {
	var analysis models.EmailAnalysis
	err := c.doJSON(ctx, request{method: http.MethodPost, path: "/api/analyze-email", body: email}, &analysis)
	if err != nil {
		return models.EmailAnalysis{}, err
	}
	if analysis.ActionItems == nil {
		analysis.ActionItems = []models.ActionItem{}
	}
	return analysis, nil
}

// History returns every analyzed email, newest first
func (c *Client) History(ctx context.Context) ([]models.AnalyzedEmail, error) {
	var history []models.AnalyzedEmail
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/api/history"}, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.AnalyzedEmail{}
	}
	return history, nil
}

// Inbox fetches one page of Gmail messages. An empty pageToken fetches the
// first page.
func (c *Client) Inbox(ctx context.Context, limit int, pageToken string) (models.InboxPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if pageToken != "" {
		query.Set("next_page_token", pageToken)
	}

	body, err := c.do(ctx, request{method: http.MethodGet, path: "/api/gmail-inbox", query: query})
	if err != nil {
		return models.InboxPage{}, err
	}

	page, err := DecodeInboxPage(body)
	if err != nil {
		return models.InboxPage{}, fmt.Errorf("failed to decode /api/gmail-inbox response: %w", err)
	}
	return page, nil
}

// DecodeInboxPage decodes an inbox response. Older backends answer with a
// bare array of messages, which is normalised to a page without a token.
func DecodeInboxPage(raw []byte) (models.InboxPage, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var messages []models.InboxMessage
		if err := json.Unmarshal(trimmed, &messages); err != nil {
			return models.InboxPage{}, err
		}
		if messages == nil {
			messages = []models.InboxMessage{}
		}
		return models.InboxPage{Messages: messages}, nil
	}

	var wire struct {
		Emails        []models.InboxMessage `json:"emails"`
		NextPageToken *string               `json:"next_page_token"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return models.InboxPage{}, err
	}

	page := models.InboxPage{Messages: wire.Emails}
	if page.Messages == nil {
		page.Messages = []models.InboxMessage{}
	}
	if wire.NextPageToken != nil {
		page.NextPageToken = *wire.NextPageToken
	}
	return page, nil
}

// AnalyzeBatch queues a set of inbox messages for analysis
func (c *Client) AnalyzeBatch(ctx context.Context, messages []models.InboxMessage) (models.StatusResponse, error) {
	if messages == nil {
		messages = []models.InboxMessage{}
	}
	return c.status(ctx, request{method: http.MethodPost, path: "/api/analyze-batch", body: messages})
}

// SendReply sends a reply through the connected Gmail account
func (c *Client) SendReply(ctx context.Context, reply models.ReplyRequest) (models.StatusResponse, error) {
	return c.status(ctx, request{method: http.MethodPost, path: "/api/send-reply", body: reply})
}

// CreateDraft stores a reply as a Gmail draft
func (c *Client) CreateDraft(ctx context.Context, reply models.ReplyRequest) (models.StatusResponse, error) {
	return c.status(ctx, request{method: http.MethodPost, path: "/api/create-draft", body: reply})
}

// Analytics returns the dashboard summary
func (c *Client) Analytics(ctx context.Context) (models.AnalyticsData, error) {
	var data models.AnalyticsData
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/api/analytics"}, &data); err != nil {
		return models.AnalyticsData{}, err
	}
	if data.PendingActions == nil {
		data.PendingActions = []models.PendingAction{}
	}
	return data, nil
}

// Knowledge lists the knowledge base
func (c *Client) Knowledge(ctx context.Context) ([]models.KnowledgeItem, error) {
	var items []models.KnowledgeItem
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/api/knowledge"}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.KnowledgeItem{}
	}
	return items, nil
}

// AddKnowledge creates a knowledge item
func (c *Client) AddKnowledge(ctx context.Context, item models.KnowledgeRequest) (models.StatusResponse, error) {
	return c.status(ctx, request{method: http.MethodPost, path: "/api/knowledge", body: item})
}

// DeleteKnowledge removes a knowledge item
func (c *Client) DeleteKnowledge(ctx context.Context, id int) (models.StatusResponse, error) {
	return c.status(ctx, request{
		method:   http.MethodDelete,
		path:     "/api/knowledge/" + strconv.Itoa(id),
		endpoint: "/api/knowledge/{id}",
	})
}

// Settings reads the AI settings
func (c *Client) Settings(ctx context.Context) (models.AISettings, error) {
	var settings models.AISettings
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/api/settings"}, &settings); err != nil {
		return models.AISettings{}, err
	}
	return settings, nil
}

// SaveSettings writes the AI settings and returns what the backend stored
func (c *Client) SaveSettings(ctx context.Context, settings models.AISettings) (models.AISettings, error) {
	var resp struct {
		Status   string             `json:"status"`
		Message  string             `json:"message"`
		Settings *models.AISettings `json:"settings"`
	}
	err := c.doJSON(ctx, request{method: http.MethodPost, path: "/api/settings", body: settings}, &resp)
	if err != nil {
		return models.AISettings{}, err
	}
	if resp.Status != "success" {
		return models.AISettings{}, &RejectedError{Endpoint: "/api/settings", Message: resp.Message}
	}
	if resp.Settings == nil {
		return settings, nil
	}
	return *resp.Settings, nil
}

// Logout disconnects the Gmail account on the backend
func (c *Client) Logout(ctx context.Context) (models.StatusResponse, error) {
	return c.status(ctx, request{method: http.MethodPost, path: "/api/logout"})
}

// status performs a call answered with {status, message}
func (c *Client) status(ctx context.Context, r request) (models.StatusResponse, error) {
	var resp models.StatusResponse
	if err := c.doJSON(ctx, r, &resp); err != nil {
		return models.StatusResponse{}, err
	}

	if !resp.OK() {
		endpoint := r.endpoint
		if endpoint == "" {
			endpoint = r.path
		}
		return resp, &RejectedError{Endpoint: endpoint, Message: resp.Message}
	}
	return resp, nil
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opsassistant/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestDecodeInboxPage(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  models.InboxPage
		wantError bool
	}{
		{
			name: "paged object",
			raw:  `{"emails":[{"id":"m1","sender":"a@x.com","subject":"Hi","body":"b"}],"next_page_token":"tok-2"}`,
			expected: models.InboxPage{
				Messages:      []models.InboxMessage{{ID: "m1", Sender: "a@x.com", Subject: "Hi", Body: "b"}},
				NextPageToken: "tok-2",
			},
		},
		{
			name: "null token on last page",
			raw:  `{"emails":[{"id":"m1"}],"next_page_token":null}`,
			expected: models.InboxPage{
				Messages: []models.InboxMessage{{ID: "m1"}},
			},
		},
		{
			name: "legacy bare array",
			raw:  ` [{"id":"m1"},{"id":"m2"}]`,
			expected: models.InboxPage{
				Messages: []models.InboxMessage{{ID: "m1"}, {ID: "m2"}},
			},
		},
		{
			name:     "legacy empty array",
			raw:      `[]`,
			expected: models.InboxPage{Messages: []models.InboxMessage{}},
		},
		{
			name:     "object without emails",
			raw:      `{}`,
			expected: models.InboxPage{Messages: []models.InboxMessage{}},
		},
		{
			name:      "malformed",
			raw:       `{"emails":`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodeInboxPage([]byte(tt.raw))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}

func TestClient_Inbox(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gmail-inbox", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{"emails":[{"id":"m3"}],"next_page_token":"tok-3"}`)
	})

	page, err := client.Inbox(context.Background(), 10, "tok+2/=")
	require.NoError(t, err)
	assert.Equal(t, "tok-3", page.NextPageToken)
	assert.Len(t, page.Messages, 1)
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, []string{"tok+2/="}, gotQuery["next_page_token"], "token is escaped and round-trips")

	_, err = client.Inbox(context.Background(), 5, "")
	require.NoError(t, err)
	_, hasToken := gotQuery["next_page_token"]
	assert.False(t, hasToken, "first page carries no token")
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Run("non-2xx is an APIError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		})

		_, err := client.History(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "/api/history", apiErr.Endpoint)
		assert.Equal(t, "boom", apiErr.Body)
	})

	t.Run("unreachable backend", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := New(srv.URL, time.Second, zerolog.Nop())

		_, err := client.Inbox(context.Background(), 10, "")
		assert.True(t, errors.Is(err, ErrBackendUnavailable))
	})

	t.Run("timeout keeps the deadline in the chain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		client := New(srv.URL, 50*time.Millisecond, zerolog.Nop())

		_, err := client.History(context.Background())
		assert.ErrorIs(t, err, ErrBackendUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = New(srv.URL, time.Second, zerolog.Nop()).History(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{not json`)
		})

		_, err := client.Knowledge(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode /api/knowledge response")
	})

	t.Run("status error in 2xx body is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":"error","message":"Gmail token expired"}`)
		})

		resp, err := client.SendReply(context.Background(), models.ReplyRequest{To: "a@x.com"})
		var rejected *RejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "Gmail token expired", rejected.Message)
		assert.Equal(t, "error", resp.Status)
	})
}

func TestClient_SendReplyPayload(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/send-reply", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = body
		_, _ = io.WriteString(w, `{"status":"success","message":"Email sent successfully"}`)
	})

	id := 42
	resp, err := client.SendReply(context.Background(), models.ReplyRequest{
		To: "a@x.com", Subject: "Re: Hi", Body: "Thanks", EmailID: &id,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "a@x.com", got["to"])
	assert.Equal(t, float64(42), got["email_id"])

	// email_id is omitted when not set
	_, err = client.CreateDraft(context.Background(), models.ReplyRequest{To: "a@x.com"})
	require.NoError(t, err)
	_, hasID := got["email_id"]
	assert.False(t, hasID)
}

func TestClient_EmptyCollectionsAreNonNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics":
			_, _ = io.WriteString(w, `{"time_saved_hours":1.5,"money_saved":75,"tasks_automated":18,"efficiency_score_percent":33}`)
		default:
			_, _ = io.WriteString(w, `null`)
		}
	})

	history, err := client.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	items, err := client.Knowledge(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)

	data, err := client.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 18, data.TasksAutomated)
	assert.NotNil(t, data.PendingActions)
}

func TestClient_DeleteKnowledge(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path != "/api/knowledge/7" {
			_, _ = io.WriteString(w, `{"status":"error","message":"Item not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success","message":"Deleted"}`)
	})

	_, err := client.DeleteKnowledge(context.Background(), 7)
	assert.NoError(t, err)

	_, err = client.DeleteKnowledge(context.Background(), 8)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "/api/knowledge/{id}", rejected.Endpoint)
}

func TestClient_Settings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"tone":"Friendly","signature":"Cheers","hourly_rate":80}`)
			return
		}
		var in models.AISettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		out, _ := json.Marshal(map[string]interface{}{"status": "success", "settings": in})
		_, _ = w.Write(out)
	})

	settings, err := client.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Friendly", settings.Tone)
	require.NotNil(t, settings.HourlyRate)
	assert.Equal(t, 80.0, *settings.HourlyRate)

	saved, err := client.SaveSettings(context.Background(), models.AISettings{Tone: "Concise", Signature: "J"})
	require.NoError(t, err)
	assert.Equal(t, "Concise", saved.Tone)
}

func TestClient_HealthAndStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status":"healthy"}`)
		case "/api/gmail-status":
			_, _ = io.WriteString(w, `{"connected":true}`)
		}
	})

	assert.NoError(t, client.Health(context.Background()))

	connected, err := client.GmailStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, connected)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"opsassistant/internal/backend"
	"opsassistant/internal/cache"
	"opsassistant/internal/models"
	"opsassistant/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeBackend emulates the AI/Gmail backend
type fakeBackend struct {
	mu        sync.Mutex
	connected bool
	pages     map[string]models.InboxPage
	history   []models.AnalyzedEmail
	knowledge []models.KnowledgeItem
	settings  models.AISettings
	// failures maps "METHOD path" to the status the backend answers with
	failures map[string]int
	bodies   map[string][]byte // last request body per "METHOD path"
	calls    map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		connected: true,
		pages:     map[string]models.InboxPage{},
		history:   []models.AnalyzedEmail{},
		knowledge: []models.KnowledgeItem{},
		settings:  models.AISettings{Tone: models.ToneFriendly, Signature: "Jane"},
		failures:  map[string]int{},
		bodies:    map[string][]byte{},
		calls:     map[string]int{},
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	if strings.HasPrefix(r.URL.Path, "/api/knowledge/") {
		key = r.Method + " /api/knowledge/{id}"
	}
	f.calls[key]++
	body, _ := io.ReadAll(r.Body)
	f.bodies[key] = body

	if status, ok := f.failures[key]; ok {
		http.Error(w, `{"detail":"boom"}`, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	ok := map[string]string{"status": "success", "message": "ok"}

	switch key {
	case "GET /health":
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	case "GET /api/gmail-status":
		_ = json.NewEncoder(w).Encode(map[string]bool{"connected": f.connected})
	case "GET /api/gmail-inbox":
		page := f.pages[r.URL.Query().Get("next_page_token")]
		var token *string
		if page.NextPageToken != "" {
			token = &page.NextPageToken
		}
		messages := page.Messages
		if messages == nil {
			messages = []models.InboxMessage{}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"emails": messages, "next_page_token": token})
	case "GET /api/history":
		_ = json.NewEncoder(w).Encode(f.history)
	case "POST /api/analyze-email":
		_ = json.NewEncoder(w).Encode(models.EmailAnalysis{
			Category: models.CategoryLead, Summary: "wants a quote", Sentiment: models.SentimentPositive, Urgency: 7,
			ActionItems: []models.ActionItem{{Description: "Send quote", Priority: models.PriorityHigh}},
		})
	case "GET /api/analytics":
		_ = json.NewEncoder(w).Encode(models.AnalyticsData{TimeSavedHours: 3.2, TasksAutomated: 39})
	case "GET /api/knowledge":
		_ = json.NewEncoder(w).Encode(f.knowledge)
	case "GET /api/settings":
		_ = json.NewEncoder(w).Encode(f.settings)
	case "POST /api/settings":
		var s models.AISettings
		_ = json.Unmarshal(body, &s)
		f.settings = s
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "settings": s})
	case "POST /api/analyze-batch", "POST /api/send-reply", "POST /api/create-draft",
		"POST /api/knowledge", "DELETE /api/knowledge/{id}", "POST /api/logout":
		_ = json.NewEncoder(w).Encode(ok)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) lastBody(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

func (f *fakeBackend) fail(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = status
}

type testEnv struct {
	fake     *fakeBackend
	api      *backend.Client
	e        *echo.Echo
	sessions *session.Manager
	store    *cache.MemoryStore
	cookie   *http.Cookie
	logger   zerolog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := newFakeBackend()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store := cache.NewMemoryStore(time.Hour)
	sessions := session.NewManager(store, time.Hour, false, zerolog.Nop())

	e := echo.New()
	e.Use(session.Middleware(sessions))

	return &testEnv{
		fake:     fake,
		api:      backend.New(srv.URL, 5*time.Second, zerolog.Nop()),
		e:        e,
		sessions: sessions,
		store:    store,
		cookie:   &http.Cookie{Name: session.CookieName, Value: uuid.NewString()},
		logger:   zerolog.Nop(),
	}
}

func (env *testEnv) request(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.AddCookie(env.cookie)

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func inboxMessage(id string) models.InboxMessage {
	return models.InboxMessage{ID: id, Sender: id + "@example.com", Subject: "Subject " + id, Body: "<p>Hello " + id + "</p>"}
}

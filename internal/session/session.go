// Package session ties a browser to its dashboard view state. Each browser
// carries a random session id in a cookie; the id scopes every key the
// session reads or writes in the shared store.
package session

import (
	"context"
	"net/http"
	"time"

	"opsassistant/internal/cache"
	"opsassistant/internal/history"
	"opsassistant/internal/inbox"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// CookieName is the cookie carrying the session id
const CookieName = "ops_session"

const contextKey = "session"

// Keys lists every entry a session may hold
var Keys = []string{
	inbox.CacheKeyInbox,
	inbox.CacheKeyToken,
	inbox.CacheKeySelection,
	history.CacheKeyHistory,
}

// Session is one browser's view state
type Session struct {
	ID    string
	Store cache.Store
}

// Manager issues session ids and scopes the shared store per session
type Manager struct {
	store  cache.Store
	ttl    time.Duration
	secure bool
	logger zerolog.Logger
}

// NewManager creates a session manager over the shared store. Cookies live
// for ttl; secure marks them HTTPS-only.
func NewManager(store cache.Store, ttl time.Duration, secure bool, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Open returns the session for id
func (m *Manager) Open(id string) *Session {
	return &Session{
		ID:    id,
		Store: cache.Namespace(m.store, "session:"+id+":"),
	}
}

// End clears every entry of the session and expires its cookie
func (m *Manager) End(c echo.Context) error {
	sess := FromContext(c)
	if sess == nil {
		return nil
	}

	if err := m.clear(c.Request().Context(), sess); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(contextKey, nil)
	return nil
}

func (m *Manager) clear(ctx context.Context, sess *Session) error {
	for _, key := range Keys {
		if err := sess.Store.Clear(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) issue(c echo.Context) string {
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	m.logger.Debug().Str("session_id", id).Msg("Issued new session")
	return id
}

// Middleware attaches the caller's session to the request, issuing a new one
// when the cookie is missing or not a valid session id
func Middleware(manager *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if cookie, err := c.Cookie(CookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = manager.issue(c)
			}

			c.Set(contextKey, manager.Open(id))
			return next(c)
		}
	}
}

// FromContext returns the session attached by Middleware, or nil
func FromContext(c echo.Context) *Session {
	sess, _ := c.Get(contextKey).(*Session)
	return sess
}

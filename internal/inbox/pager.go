// Package inbox holds a session's paginated view of the Gmail inbox: the
// fetched message sequence, its page token and the multi-select set.
package inbox

import (
	"context"
	"encoding/json"

	"opsassistant/internal/cache"
	"opsassistant/internal/metrics"
	"opsassistant/internal/models"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Session store keys
const (
	CacheKeyInbox     = "cached_inbox"
	CacheKeyToken     = "cached_token"
	CacheKeySelection = "selected_emails"
)

// Fetcher loads one inbox page from the backend
type Fetcher interface {
	Inbox(ctx context.Context, limit int, pageToken string) (models.InboxPage, error)
}

// State is the held inbox: every fetched message in fetch order and the token
// of the next page. An empty token means there are no further pages.
type State struct {
	Messages      []models.InboxMessage
	NextPageToken string
}

// HasMore reports whether another page can be fetched
func (s State) HasMore() bool {
	return s.NextPageToken != ""
}

// Pager fetches inbox pages into a session's held state
type Pager struct {
	fetcher Fetcher
	store   cache.Store
	logger  zerolog.Logger
}

// NewPager creates a pager over a session-scoped store
func NewPager(fetcher Fetcher, store cache.Store, logger zerolog.Logger) *Pager {
	return &Pager{fetcher: fetcher, store: store, logger: logger}
}

// Hydrate restores the held state from the session store without a network
// call. A missing or malformed entry yields the empty state.
func (p *Pager) Hydrate(ctx context.Context) State {
	state := State{Messages: []models.InboxMessage{}}

	raw, ok, err := p.store.Get(ctx, CacheKeyInbox)
	if err != nil {
		metrics.SessionCacheErrors.WithLabelValues("get").Inc()
		p.logger.Warn().Err(err).Msg("Failed to read cached inbox")
		return state
	}
	if !ok {
		return state
	}

	var messages []models.InboxMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("decode").Inc()
		p.logger.Warn().Err(err).Msg("Ignoring malformed cached inbox")
		return state
	}
	if messages != nil {
		state.Messages = messages
	}

	token, ok, err := p.store.Get(ctx, CacheKeyToken)
	if err != nil {
		metrics.SessionCacheErrors.WithLabelValues("get").Inc()
		p.logger.Warn().Err(err).Msg("Failed to read cached page token")
		return state
	}
	if ok {
		state.NextPageToken = token
	}

	return state
}

// Reset discards the held state and fetches the first page fresh. The held
// state is cleared before the fetch, so a failed fetch leaves it empty.
func (p *Pager) Reset(ctx context.Context, limit int) (State, error) {
	p.clear(ctx, CacheKeyInbox)
	p.clear(ctx, CacheKeyToken)

	page, err := p.fetcher.Inbox(ctx, limit, "")
	if err != nil {
		return State{Messages: []models.InboxMessage{}}, err
	}

	state := State{
		Messages:      merge(nil, page.Messages),
		NextPageToken: page.NextPageToken,
	}
	metrics.InboxMessagesFetched.WithLabelValues("reset").Add(float64(len(state.Messages)))

	p.persist(ctx, state)
	return state, nil
}

// FetchMore fetches the page after the held token and appends the messages
// whose id is not held yet. A failed fetch leaves the held state unchanged
// and returns it alongside the error.
func (p *Pager) FetchMore(ctx context.Context, limit int) (State, error) {
	held := p.Hydrate(ctx)
	if !held.HasMore() && len(held.Messages) > 0 {
		return held, nil
	}

	page, err := p.fetcher.Inbox(ctx, limit, held.NextPageToken)
	if err != nil {
		return held, err
	}

	merged := merge(held.Messages, page.Messages)
	metrics.InboxMessagesFetched.WithLabelValues("more").Add(float64(len(merged) - len(held.Messages)))

	state := State{Messages: merged, NextPageToken: page.NextPageToken}
	p.persist(ctx, state)
	return state, nil
}

// merge appends the messages of page whose id is not already in held. Ids
// repeated within page are appended once.
func merge(held, page []models.InboxMessage) []models.InboxMessage {
	seen := lo.SliceToMap(held, func(m models.InboxMessage) (string, struct{}) {
		return m.ID, struct{}{}
	})

	merged := make([]models.InboxMessage, len(held), len(held)+len(page))
	copy(merged, held)

	for _, message := range page {
		if _, dup := seen[message.ID]; dup {
			metrics.InboxDuplicatesSkipped.Inc()
			continue
		}
		seen[message.ID] = struct{}{}
		merged = append(merged, message)
	}
	return merged
}

func (p *Pager) persist(ctx context.Context, state State) {
	if len(state.Messages) > 0 {
		payload, err := json.Marshal(state.Messages)
		if err != nil {
			p.logger.Warn().Err(err).Msg("Failed to encode inbox")
		} else if err := p.store.Set(ctx, CacheKeyInbox, string(payload)); err != nil {
			metrics.SessionCacheErrors.WithLabelValues("set").Inc()
			p.logger.Warn().Err(err).Msg("Failed to cache inbox")
		}
	}

	if state.NextPageToken == "" {
		p.clear(ctx, CacheKeyToken)
		return
	}
	if err := p.store.Set(ctx, CacheKeyToken, state.NextPageToken); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("set").Inc()
		p.logger.Warn().Err(err).Msg("Failed to cache page token")
	}
}

func (p *Pager) clear(ctx context.Context, key string) {
	if err := p.store.Clear(ctx, key); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("clear").Inc()
		p.logger.Warn().Err(err).Str("key", key).Msg("Failed to clear session entry")
	}
}

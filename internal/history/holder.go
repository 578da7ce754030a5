package history

import (
	"context"
	"encoding/json"

	"opsassistant/internal/cache"
	"opsassistant/internal/metrics"
	"opsassistant/internal/models"

	"github.com/rs/zerolog"
)

// CacheKeyHistory holds the session's copy of the history list
const CacheKeyHistory = "cached_history"

// Loader fetches the full history from the backend
type Loader interface {
	History(ctx context.Context) ([]models.AnalyzedEmail, error)
}

// Holder keeps a session's working copy of the history list. Local edits
// (optimistic reply marks, edited suggestions) live in the copy until the
// next refresh replaces it with the backend's version.
type Holder struct {
	loader Loader
	store  cache.Store
	logger zerolog.Logger
}

// NewHolder creates a holder over a session-scoped store
func NewHolder(loader Loader, store cache.Store, logger zerolog.Logger) *Holder {
	return &Holder{loader: loader, store: store, logger: logger}
}

// Load returns the held copy, fetching it from the backend when there is none
// or when refresh is set. On a failed fetch the result is empty and the error
// is returned alongside it.
func (h *Holder) Load(ctx context.Context, refresh bool) ([]models.AnalyzedEmail, error) {
	if !refresh {
		if held, ok := h.held(ctx); ok {
			return held, nil
		}
	}

	fetched, err := h.loader.History(ctx)
	if err != nil {
		return []models.AnalyzedEmail{}, err
	}

	h.save(ctx, fetched)
	return fetched, nil
}

// Invalidate drops the held copy so the next Load refetches
func (h *Holder) Invalidate(ctx context.Context) {
	if err := h.store.Clear(ctx, CacheKeyHistory); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("clear").Inc()
		h.logger.Warn().Err(err).Msg("Failed to clear held history")
	}
}

// MarkReplied marks a held record as replied with the body that was sent.
// It reports false when the record is not held.
func (h *Holder) MarkReplied(ctx context.Context, id int, body string) bool {
	return h.edit(ctx, func(held []models.AnalyzedEmail) ([]models.AnalyzedEmail, bool) {
		return MarkReplied(held, id, body)
	})
}

// SetSuggestedReply replaces the suggested reply of a held record
func (h *Holder) SetSuggestedReply(ctx context.Context, id int, reply string) bool {
	return h.edit(ctx, func(held []models.AnalyzedEmail) ([]models.AnalyzedEmail, bool) {
		return SetSuggestedReply(held, id, reply)
	})
}

func (h *Holder) edit(ctx context.Context, fn func([]models.AnalyzedEmail) ([]models.AnalyzedEmail, bool)) bool {
	held, ok := h.held(ctx)
	if !ok {
		return false
	}

	updated, found := fn(held)
	if !found {
		return false
	}

	h.save(ctx, updated)
	return true
}

func (h *Holder) held(ctx context.Context) ([]models.AnalyzedEmail, bool) {
	raw, ok, err := h.store.Get(ctx, CacheKeyHistory)
	if err != nil {
		metrics.SessionCacheErrors.WithLabelValues("get").Inc()
		h.logger.Warn().Err(err).Msg("Failed to read held history")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var held []models.AnalyzedEmail
	if err := json.Unmarshal([]byte(raw), &held); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("decode").Inc()
		h.logger.Warn().Err(err).Msg("Ignoring malformed held history")
		return nil, false
	}
	if held == nil {
		held = []models.AnalyzedEmail{}
	}
	return held, true
}

func (h *Holder) save(ctx context.Context, history []models.AnalyzedEmail) {
	payload, err := json.Marshal(history)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to encode history")
		return
	}

	if err := h.store.Set(ctx, CacheKeyHistory, string(payload)); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("set").Inc()
		h.logger.Warn().Err(err).Msg("Failed to store held history")
	}
}

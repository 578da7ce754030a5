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

// Selection is the set of inbox message ids picked for batch analysis, kept
// in the order they were selected
type Selection struct {
	store  cache.Store
	logger zerolog.Logger
}

// NewSelection creates a selection over a session-scoped store
func NewSelection(store cache.Store, logger zerolog.Logger) *Selection {
	return &Selection{store: store, logger: logger}
}

// IDs returns the selected message ids
func (s *Selection) IDs(ctx context.Context) []string {
	raw, ok, err := s.store.Get(ctx, CacheKeySelection)
	if err != nil {
		metrics.SessionCacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Msg("Failed to read selection")
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("decode").Inc()
		s.logger.Warn().Err(err).Msg("Ignoring malformed selection")
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

// Toggle flips the selection of id. Analyzed messages cannot be selected, so
// toggling one leaves the selection untouched. It returns whether id is
// selected afterwards along with the full selection.
func (s *Selection) Toggle(ctx context.Context, id string, analyzed bool) (bool, []string, error) {
	ids := s.IDs(ctx)
	if analyzed {
		return lo.Contains(ids, id), ids, nil
	}

	selected := !lo.Contains(ids, id)
	if selected {
		ids = append(ids, id)
	} else {
		ids = lo.Without(ids, id)
	}

	if err := s.save(ctx, ids); err != nil {
		return !selected, s.IDs(ctx), err
	}
	return selected, ids, nil
}

// Clear empties the selection
func (s *Selection) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, CacheKeySelection); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("clear").Inc()
		return err
	}
	return nil
}

// Pick returns the held messages that are selected and not analyzed, in
// inbox order
func Pick(messages []models.InboxMessage, selected []string, analyzed func(models.InboxMessage) bool) []models.InboxMessage {
	set := lo.SliceToMap(selected, func(id string) (string, struct{}) {
		return id, struct{}{}
	})

	return lo.Filter(messages, func(m models.InboxMessage, _ int) bool {
		_, ok := set[m.ID]
		return ok && !analyzed(m)
	})
}

func (s *Selection) save(ctx context.Context, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, CacheKeySelection, string(payload)); err != nil {
		metrics.SessionCacheErrors.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"opsassistant/internal/cache"
	"opsassistant/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	history []models.AnalyzedEmail
	err     error
	calls   int
}

func (f *fakeLoader) History(context.Context) ([]models.AnalyzedEmail, error) {
	f.calls++
	return f.history, f.err
}

func newTestHolder(loader Loader) (*Holder, *cache.MemoryStore) {
	store := cache.NewMemoryStore(time.Hour)
	return NewHolder(loader, store, zerolog.Nop()), store
}

func TestHolder_LoadCachesFirstFetch(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{history: sampleHistory()}
	holder, _ := newTestHolder(loader)

	first, err := holder.Load(ctx, false)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := holder.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loader.calls)

	_, err = holder.Load(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestHolder_LoadFailure(t *testing.T) {
	loader := &fakeLoader{err: errors.New("backend down")}
	holder, _ := newTestHolder(loader)

	history, err := holder.Load(context.Background(), false)
	assert.Error(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestHolder_MalformedCopyRefetches(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{history: sampleHistory()}
	holder, store := newTestHolder(loader)

	require.NoError(t, store.Set(ctx, CacheKeyHistory, "{not json"))

	history, err := holder.Load(ctx, false)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 1, loader.calls)
}

func TestHolder_MarkRepliedSurvivesReload(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{history: sampleHistory()}
	holder, _ := newTestHolder(loader)

	_, err := holder.Load(ctx, false)
	require.NoError(t, err)

	assert.True(t, holder.MarkReplied(ctx, 1, "Sent body"))
	assert.False(t, holder.MarkReplied(ctx, 42, "Nope"))

	held, err := holder.Load(ctx, false)
	require.NoError(t, err)
	assert.True(t, held[0].IsReplied)
	require.NotNil(t, held[0].SuggestedReply)
	assert.Equal(t, "Sent body", *held[0].SuggestedReply)

	// a refresh replaces local edits with the backend copy
	refreshed, err := holder.Load(ctx, true)
	require.NoError(t, err)
	assert.False(t, refreshed[0].IsReplied)
}

func TestHolder_EditWithoutHeldCopy(t *testing.T) {
	holder, _ := newTestHolder(&fakeLoader{})
	assert.False(t, holder.SetSuggestedReply(context.Background(), 1, "x"))
}

func TestHolder_SetSuggestedReplyAndInvalidate(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{history: sampleHistory()}
	holder, store := newTestHolder(loader)

	_, err := holder.Load(ctx, false)
	require.NoError(t, err)
	assert.True(t, holder.SetSuggestedReply(ctx, 2, "Edited"))

	holder.Invalidate(ctx)
	_, ok, err := store.Get(ctx, CacheKeyHistory)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = holder.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

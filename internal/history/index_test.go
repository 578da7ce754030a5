package history

import (
	"testing"

	"opsassistant/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsAnalyzed(t *testing.T) {
	history := sampleHistory()

	tests := []struct {
		name     string
		message  models.InboxMessage
		expected bool
	}{
		{"analyzed message", models.InboxMessage{ID: "m1"}, true},
		{"second analyzed message", models.InboxMessage{ID: "m2"}, true},
		{"unknown message", models.InboxMessage{ID: "m9"}, false},
		{"empty id", models.InboxMessage{ID: ""}, false},
	}

	index := NewIndex(history)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAnalyzed(tt.message, history))
			assert.Equal(t, tt.expected, index.IsAnalyzed(tt.message))
		})
	}
}

func TestIsAnalyzed_EmptyHistory(t *testing.T) {
	assert.False(t, IsAnalyzed(models.InboxMessage{ID: "m1"}, nil))
	assert.False(t, NewIndex(nil).IsAnalyzed(models.InboxMessage{ID: "m1"}))
}

func TestNewIndex_SkipsEmptyIDs(t *testing.T) {
	index := NewIndex([]models.AnalyzedEmail{
		{ID: 1, GmailMessageID: ""},
		{ID: 2, GmailMessageID: "m2"},
		{ID: 3, GmailMessageID: "m2"},
	})

	assert.Len(t, index, 1)
	assert.True(t, index.Contains("m2"))
	assert.False(t, index.Contains(""))
}

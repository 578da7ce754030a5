// Package history holds the rules applied to analyzed emails on the
// dashboard: reconciliation against inbox messages, search and filtering,
// CSV export and local (optimistic) edits.
package history

import "opsassistant/internal/models"

// IsAnalyzed reports whether history holds a record for message. It scans the
// whole history; use an Index when checking many messages.
func IsAnalyzed(message models.InboxMessage, history []models.AnalyzedEmail) bool {
	for _, record := range history {
		if record.GmailMessageID == message.ID {
			return true
		}
	}
	return false
}

// Index is the set of Gmail message ids that have been analyzed. Build it
// once per history update and reuse it for every membership check.
type Index map[string]struct{}

// NewIndex builds the index for a history list
func NewIndex(history []models.AnalyzedEmail) Index {
	index := make(Index, len(history))
	for _, record := range history {
		if record.GmailMessageID == "" {
			continue
		}
		index[record.GmailMessageID] = struct{}{}
	}
	return index
}

// IsAnalyzed reports whether message has a history record
func (idx Index) IsAnalyzed(message models.InboxMessage) bool {
	return idx.Contains(message.ID)
}

// Contains reports whether a Gmail message id has a history record
func (idx Index) Contains(gmailMessageID string) bool {
	_, ok := idx[gmailMessageID]
	return ok
}

package history

import "opsassistant/internal/models"

// MarkReplied returns a copy of history where the record with id is marked as
// replied and carries body as its suggested reply. The second result is false
// when no record has that id.
func MarkReplied(history []models.AnalyzedEmail, id int, body string) ([]models.AnalyzedEmail, bool) {
	return update(history, id, func(record *models.AnalyzedEmail) {
		record.IsReplied = true
		record.SuggestedReply = &body
	})
}

// SetSuggestedReply returns a copy of history with the suggested reply of the
// record with id replaced
func SetSuggestedReply(history []models.AnalyzedEmail, id int, reply string) ([]models.AnalyzedEmail, bool) {
	return update(history, id, func(record *models.AnalyzedEmail) {
		record.SuggestedReply = &reply
	})
}

func update(history []models.AnalyzedEmail, id int, fn func(*models.AnalyzedEmail)) ([]models.AnalyzedEmail, bool) {
	updated := make([]models.AnalyzedEmail, len(history))
	copy(updated, history)

	found := false
	for i := range updated {
		if updated[i].ID == id {
			fn(&updated[i])
			found = true
		}
	}
	return updated, found
}

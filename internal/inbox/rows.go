package inbox

import (
	"opsassistant/internal/emails"
	"opsassistant/internal/history"
	"opsassistant/internal/models"

	"github.com/samber/lo"
)

// Rows renders the held messages for display. With hideAnalyzed set, analyzed
// messages are left out of the rows only; the held state is not touched.
func Rows(messages []models.InboxMessage, index history.Index, selected []string, hideAnalyzed bool) []models.InboxRow {
	rows := make([]models.InboxRow, 0, len(messages))
	for _, message := range messages {
		analyzed := index.IsAnalyzed(message)
		if hideAnalyzed && analyzed {
			continue
		}

		preview := emails.Preview(message.Body, emails.DefaultPreviewLength)
		rows = append(rows, models.InboxRow{
			ID:        message.ID,
			Sender:    message.Sender,
			Subject:   message.Subject,
			Preview:   preview,
			Direction: emails.Direction(message.Subject + " " + preview),
			Analyzed:  analyzed,
			Selected:  !analyzed && lo.Contains(selected, message.ID),
		})
	}
	return rows
}

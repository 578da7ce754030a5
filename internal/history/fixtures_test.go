package history

import "opsassistant/internal/models"

func sampleHistory() []models.AnalyzedEmail {
	return []models.AnalyzedEmail{
		{
			ID:             1,
			GmailMessageID: "m1",
			Sender:         "alice@acme.com",
			Subject:        "Quote",
			Category:       models.CategoryLead,
			Summary:        "wants price",
			Sentiment:      models.SentimentPositive,
			Urgency:        8,
			CreatedAt:      "2024-05-01T10:00:00",
		},
		{
			ID:             2,
			GmailMessageID: "m2",
			Sender:         "bob@x.io",
			Subject:        "Bug",
			Category:       models.CategorySupport,
			Summary:        "crash",
			Sentiment:      models.SentimentNegative,
			Urgency:        4,
			CreatedAt:      "2024-05-02T10:00:00",
		},
	}
}

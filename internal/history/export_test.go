package history

import (
	"errors"
	"strings"
	"testing"

	"opsassistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportString(t *testing.T, records []models.AnalyzedEmail) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, records))
	return sb.String()
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	assert.Equal(t, "ID,Sender,Subject,Category,Sentiment,Urgency,Summary,Date", exportString(t, nil))
}

func TestWriteCSV_QuotesFreeText(t *testing.T) {
	records := []models.AnalyzedEmail{
		{
			ID:        7,
			Sender:    "carol@corp.com",
			Subject:   `Re: "Q3 plan", final`,
			Category:  models.CategoryOther,
			Sentiment: models.SentimentNeutral,
			Urgency:   3,
			Summary:   "ok",
			CreatedAt: "2024-05-03T09:30:00",
		},
	}

	out := exportString(t, records)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`7,"carol@corp.com","Re: ""Q3 plan"", final",Other,Neutral,3,"ok",2024-05-03T09:30:00`,
		lines[1])
}

func TestWriteCSV_RowPerRecordInOrder(t *testing.T) {
	out := exportString(t, sampleHistory())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `1,"alice@acme.com"`))
	assert.True(t, strings.HasPrefix(lines[2], `2,"bob@x.io"`))
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestWriteCSV_EmbeddedNewlinesStayQuoted(t *testing.T) {
	out := exportString(t, []models.AnalyzedEmail{{ID: 1, Summary: "line one\nline two"}})
	assert.Contains(t, out, "\"line one\nline two\"")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterFailure(t *testing.T) {
	err := WriteCSV(failingWriter{}, sampleHistory())
	assert.Error(t, err)
}

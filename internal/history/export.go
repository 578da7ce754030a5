package history

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"opsassistant/internal/models"
)

// ExportFilename is the download name of the CSV export
const ExportFilename = "email_history_export.csv"

// ExportHeader is the fixed column order of the CSV export
var ExportHeader = []string{"ID", "Sender", "Subject", "Category", "Sentiment", "Urgency", "Summary", "Date"}

// WriteCSV writes records as CSV. Only the free-text fields (sender, subject,
// summary) are quoted; identifiers, enums, urgency and the date are written
// as-is. Lines are separated by "\n" without a trailing newline.
func WriteCSV(w io.Writer, records []models.AnalyzedEmail) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(ExportHeader, ",")); err != nil {
		return err
	}

	for _, record := range records {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := bw.WriteString(csvRow(record)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func csvRow(record models.AnalyzedEmail) string {
	fields := []string{
		strconv.Itoa(record.ID),
		quote(record.Sender),
		quote(record.Subject),
		record.Category,
		record.Sentiment,
		strconv.Itoa(record.Urgency),
		quote(record.Summary),
		record.CreatedAt,
	}
	return strings.Join(fields, ",")
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

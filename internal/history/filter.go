package history

import (
	"strings"

	"opsassistant/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilterAll disables the category and sentiment filters
const FilterAll = "All"

// Criteria are the four independent history filters. All active criteria must
// match.
type Criteria struct {
	Search     string // case-insensitive substring of sender, subject or summary
	Category   string // exact match, FilterAll or empty disables
	Sentiment  string // exact match, FilterAll or empty disables
	MinUrgency int    // urgency >= MinUrgency, 0 disables
}

// Apply returns the records of history matching every active criterion, in
// their original order
func Apply(history []models.AnalyzedEmail, criteria Criteria) []models.AnalyzedEmail {
	matcher := newMatcher(criteria)

	result := make([]models.AnalyzedEmail, 0, len(history))
	for _, record := range history {
		if matcher.matches(record) {
			result = append(result, record)
		}
	}
	return result
}

type matcher struct {
	criteria Criteria
	lower    cases.Caser
	term     string
}

// newMatcher lowercases the term and fields without folding, so "ss" does
// not match "ß"
func newMatcher(criteria Criteria) *matcher {
	lower := cases.Lower(language.Und)
	return &matcher{
		criteria: criteria,
		lower:    lower,
		term:     lower.String(criteria.Search),
	}
}

func (m *matcher) matches(record models.AnalyzedEmail) bool {
	if m.term != "" &&
		!m.contains(record.Sender) &&
		!m.contains(record.Subject) &&
		!m.contains(record.Summary) {
		return false
	}

	if active(m.criteria.Category) && record.Category != m.criteria.Category {
		return false
	}

	if active(m.criteria.Sentiment) && record.Sentiment != m.criteria.Sentiment {
		return false
	}

	if m.criteria.MinUrgency > 0 && record.Urgency < m.criteria.MinUrgency {
		return false
	}

	return true
}

func (m *matcher) contains(field string) bool {
	return strings.Contains(m.lower.String(field), m.term)
}

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

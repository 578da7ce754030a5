package emails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"english", "Hello, how can I help you?", DirectionLTR},
		{"hebrew", "שלום, איך אני יכול לעזור לך?", DirectionRTL},
		{"arabic", "مرحبا، كيف يمكنني مساعدتك؟", DirectionRTL},
		{"russian", "Привет, как я могу помочь?", DirectionLTR},
		{"hebrew with an english product name", "ההזמנה של iPhone הגיעה", DirectionRTL},
		{"english with one hebrew word", "Thanks for the order, שלום and see you next week", DirectionLTR},
		{"empty", "", DirectionLTR},
		{"digits and punctuation only", "123-456 !!", DirectionLTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Direction(tt.input))
		})
	}
}

package emails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"paragraph", "<p>Hello</p>", true},
		{"doctype", "<!DOCTYPE html><html></html>", true},
		{"uppercase tag", "<DIV>x</DIV>", true},
		{"plain text", "Hello there", false},
		{"comparison is not markup", "if a < b and c > d", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeHTML(tt.body))
		})
	}
}

func TestPlainText(t *testing.T) {
	t.Run("plain body is kept", func(t *testing.T) {
		assert.Equal(t, "Hi Jane,\nSee you soon.", PlainText("  Hi Jane,\nSee you soon.\n"))
	})

	t.Run("html is converted", func(t *testing.T) {
		text := PlainText(`<html><body><p>Invoice <b>#42</b> is due</p><a href="https://pay.example.com">Pay now</a></body></html>`)
		assert.Contains(t, text, "Invoice")
		assert.Contains(t, text, "#42")
		assert.Contains(t, text, "Pay now")
		assert.NotContains(t, text, "<p>")
		assert.NotContains(t, text, "https://pay.example.com", "links are omitted")
	})

	t.Run("scripts are dropped", func(t *testing.T) {
		text := PlainText(`<div>Hello</div><script>alert("x")</script>`)
		assert.Contains(t, text, "Hello")
		assert.NotContains(t, text, "alert")
	})
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		max      int
		expected string
	}{
		{"short text", "Hello there", 20, "Hello there"},
		{"whitespace collapsed", "Hello\n\n  there\tfriend", 50, "Hello there friend"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
		{"zero max keeps all", "Hello there", 0, "Hello there"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Preview(tt.body, tt.max))
		})
	}
}

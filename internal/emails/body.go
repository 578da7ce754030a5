// Package emails turns raw email bodies into text the dashboard can show.
package emails

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jaytaylor/html2text"
)

// DefaultPreviewLength is the preview size used by inbox rows
const DefaultPreviewLength = 160

var htmlTagPattern = regexp.MustCompile(`<(?i:[a-z!/][^>]*)>`)

// LooksLikeHTML reports whether body contains markup
func LooksLikeHTML(body string) bool {
	return htmlTagPattern.MatchString(body)
}

// PlainText converts an HTML body to readable text. Bodies without markup are
// returned unchanged apart from trimming, and so are bodies the converter
// cannot parse.
func PlainText(body string) string {
	if !LooksLikeHTML(body) {
		return strings.TrimSpace(body)
	}

	text, err := html2text.FromString(body, html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(text)
}

// Preview returns a single-line excerpt of at most maxRunes runes
func Preview(body string, maxRunes int) string {
	text := strings.Join(strings.Fields(PlainText(body)), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}

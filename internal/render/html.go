// Package render prepares backend answer text for terminal display. Answers
// are stored as HTML fragments; only their visible text is shown.
package render

import (
	"strings"

	"golang.org/x/net/html"
)

// Text extracts the visible text from an HTML fragment. Block-level breaks
// (br, div, p, li) become newlines. Plain text passes through unchanged.
func Text(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}

	tok := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tok.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			switch string(name) {
			case "br", "div", "p", "li":
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
			}
		}
	}
}

// Package email parses the free-text recipient input used when sharing a
// Q&A record. Validation here is deliberately loose; the backend is the
// final authority on address syntax.
package email

import "strings"

// Recipients is the parsed To/Cc split from the share form.
type Recipients struct {
	To []string `json:"to"`
	Cc []string `json:"cc"`
}

// ParseRecipients splits free-text input into addresses: newlines first,
// then commas, trimming each candidate and keeping anything that contains
// an @. Duplicates are preserved in encounter order. Empty input yields an
// empty list, which callers must treat as "no recipients".
func ParseRecipients(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, candidate := range strings.Split(line, ",") {
			addr := strings.TrimSpace(candidate)
			if addr != "" && strings.Contains(addr, "@") {
				out = append(out, addr)
			}
		}
	}
	return out
}

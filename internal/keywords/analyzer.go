// Package keywords ranks tokens by how often they occur across a batch of
// customer questions. It runs over the current search result only and keeps
// no state between calls.
package keywords

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// TopN caps the analyzer output.
const TopN = 50

const maxExamples = 3

// Punctuation characters treated as token separators, alongside whitespace.
// Includes the full-width forms common in CJK questions.
const separators = ".,!?;:\"'()[]{}<>/\\|@#$%^&*_=+~`。、！？「」（）"

// Stat is one ranked keyword with up to three distinct example questions it
// appeared in, in order of first appearance.
type Stat struct {
	Keyword          string   `json:"keyword"`
	Count            int      `json:"count"`
	ExampleQuestions []string `json:"example_questions"`
}

// Analyze tokenizes the questions and returns the TopN tokens by descending
// count. Ties keep first-encountered order. Tokens shorter than two runes
// are dropped.
func Analyze(questions []string) []Stat {
	counts := make(map[string]int)
	examples := make(map[string][]string)
	var order []string

	for _, q := range questions {
		for _, tok := range tokenize(q) {
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
			if len(examples[tok]) < maxExamples && !slices.Contains(examples[tok], q) {
				examples[tok] = append(examples[tok], q)
			}
		}
	}

	stats := make([]Stat, 0, len(order))
	for _, tok := range order {
		stats = append(stats, Stat{
			Keyword:          tok,
			Count:            counts[tok],
			ExampleQuestions: examples[tok],
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	if len(stats) > TopN {
		stats = stats[:TopN]
	}
	return stats
}

func tokenize(question string) []string {
	lowered := strings.ToLower(question)
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' ||
			strings.ContainsRune(separators, r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

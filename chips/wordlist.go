package chips

import (
	"regexp"
	"strings"
)

// MinWordLen drops "a", "of" and friends from pasted lists
const MinWordLen = 3

// ParseWordList reads a comma or newline separated list of words
func ParseWordList(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	seen := map[string]bool{}
	words := []string{}
	for _, f := range fields {
		w := Normalize(f)
		if len(w) < MinWordLen || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

var tokenRe = regexp.MustCompile(`[a-z']+`)

// Frequencies counts whole-word, case-insensitive occurrences of each word
// in text, so "grace" matches "Grace" but not "disgrace".
func Frequencies(text string, words []string) map[string]int {
	counts := map[string]int{}
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		counts[tok]++
	}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		w = Normalize(w)
		freq[w] = counts[w]
	}
	return freq
}

// Presets turns a word list into chips ready for NewSelector
func Presets(words []string, counts map[string]int, state State) []Chip {
	presets := make([]Chip, 0, len(words))
	for _, w := range words {
		w = Normalize(w)
		presets = append(presets, Chip{Word: w, Source: Preset, State: state, Count: counts[w]})
	}
	return presets
}

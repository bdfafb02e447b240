package chips

import (
	"encoding/json"
	"fmt"
	"strings"
)

type State string

const (
	Selected   State = "selected"
	Deselected State = "deselected"
)

type Source string

const (
	Preset Source = "preset"
	Custom Source = "custom"
)

// Chip is one candidate word and whether it will go on the board
type Chip struct {
	Word   string
	Source Source
	State  State
	// how many times the word shows up in the text it was pulled from
	Count int `json:",omitempty"`
}

func (c *Chip) IsSelected() bool {
	return c.State == Selected
}

// Normalize is the uniqueness key for chips
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Selector holds the chips in display order. It is not safe for concurrent
// use, the owning room goroutine is the only caller.
type Selector struct {
	chips []*Chip
	index map[string]*Chip
}

// NewSelector takes the chips the page was rendered with. Words are
// normalized, empty words are skipped and the first chip wins a duplicate.
func NewSelector(presets []Chip) *Selector {
	s := &Selector{index: map[string]*Chip{}}
	for _, p := range presets {
		word := Normalize(p.Word)
		if word == "" {
			continue
		}
		if _, ok := s.index[word]; ok {
			continue
		}
		chip := p
		chip.Word = word
		if chip.Source == "" {
			chip.Source = Preset
		}
		if chip.State != Deselected {
			chip.State = Selected
		}
		s.append(&chip)
	}
	return s
}

func (s *Selector) append(c *Chip) {
	s.chips = append(s.chips, c)
	s.index[c.Word] = c
}

// Find returns the chip tagged with word, or nil
func (s *Selector) Find(word string) *Chip {
	return s.index[Normalize(word)]
}

// Toggle flips the chip tagged with word. False means no chip had that tag
// and nothing changed.
func (s *Selector) Toggle(word string) bool {
	c := s.Find(word)
	if c == nil {
		return false
	}
	if c.State == Selected {
		c.State = Deselected
	} else {
		c.State = Selected
	}
	return true
}

type AddResult int

const (
	// Ignored means the input was blank, leave the text box alone
	Ignored AddResult = iota
	// Reselected means the word was already a chip and is now selected
	Reselected
	// Created means a new custom chip was appended
	Created
)

func (r AddResult) String() string {
	switch r {
	case Ignored:
		return "ignored"
	case Reselected:
		return "reselected"
	case Created:
		return "created"
	}
	return fmt.Sprintf("AddResult(%d)", int(r))
}

func (r AddResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Add puts a word on the board. A word that is already there is forced to
// selected even if the user deselected it before.
func (s *Selector) Add(raw string) AddResult {
	word := Normalize(raw)
	if word == "" {
		return Ignored
	}
	if c, ok := s.index[word]; ok {
		c.State = Selected
		return Reselected
	}
	s.append(&Chip{Word: word, Source: Custom, State: Selected})
	return Created
}

func (s *Selector) SelectAll() {
	for _, c := range s.chips {
		c.State = Selected
	}
}

func (s *Selector) DeselectAll() {
	for _, c := range s.chips {
		c.State = Deselected
	}
}

func (s *Selector) Len() int {
	return len(s.chips)
}

// Chips returns a copy of every chip in display order
func (s *Selector) Chips() []Chip {
	out := make([]Chip, len(s.chips))
	for i, c := range s.chips {
		out[i] = *c
	}
	return out
}

// SelectedWords returns the selected words in display order
func (s *Selector) SelectedWords() []string {
	words := []string{}
	for _, c := range s.chips {
		if c.IsSelected() {
			words = append(words, c.Word)
		}
	}
	return words
}

// CustomWords returns the selected words the user typed in themselves
func (s *Selector) CustomWords() []string {
	words := []string{}
	for _, c := range s.chips {
		if c.IsSelected() && c.Source == Custom {
			words = append(words, c.Word)
		}
	}
	return words
}

// Submission is what gets written into the form's hidden fields
type Submission struct {
	SelectedWords string
	CustomWords   string
}

// Submission encodes the current selection. The minimum word count is not
// checked here, the status tiers are only advice.
func (s *Selector) Submission() Submission {
	return Submission{
		SelectedWords: encode(s.SelectedWords()),
		CustomWords:   encode(s.CustomWords()),
	}
}

func encode(words []string) string {
	b, err := json.Marshal(words)
	if err != nil {
		// a []string always marshals
		panic(err)
	}
	return string(b)
}

// DecodeWords parses a hidden field value back into words
func DecodeWords(field string) ([]string, error) {
	var words []string
	if err := json.Unmarshal([]byte(field), &words); err != nil {
		return nil, fmt.Errorf("decoding word list: %w", err)
	}
	return words, nil
}

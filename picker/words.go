package picker

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/jakecoffman/bingo/chips"
	"github.com/jakecoffman/bingo/config"
)

//go:embed words.txt
var defaultWords string

// LoadPresets renders the chips every new room starts with
func LoadPresets(cfg config.WordsConfig) ([]chips.Chip, error) {
	var words []string
	switch {
	case cfg.File != "":
		b, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("reading word list: %w", err)
		}
		words = chips.ParseWordList(string(b))
	case len(cfg.List) > 0:
		// one pass so duplicates across entries are dropped too
		words = chips.ParseWordList(strings.Join(cfg.List, "\n"))
	default:
		words = chips.ParseWordList(defaultWords)
	}

	var counts map[string]int
	if cfg.TextFile != "" {
		text, err := os.ReadFile(cfg.TextFile)
		if err != nil {
			return nil, fmt.Errorf("reading source text: %w", err)
		}
		counts = chips.Frequencies(string(text), words)
	}

	state := chips.Selected
	if cfg.Deselected {
		state = chips.Deselected
	}
	return chips.Presets(words, counts, state), nil
}

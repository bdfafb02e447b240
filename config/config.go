// Package config loads the word picker's settings from a YAML file with
// environment overrides on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr    string        `yaml:"addr"`
	Words   WordsConfig   `yaml:"words"`
	Rooms   RoomsConfig   `yaml:"rooms"`
	Logging LoggingConfig `yaml:"logging"`
}

// WordsConfig is where the preset chips come from. File wins over List,
// and with neither the built-in list is used.
type WordsConfig struct {
	File string   `yaml:"file"`
	List []string `yaml:"list"`
	// text the words were pulled from, used to show how often each appears
	TextFile string `yaml:"text_file"`
	// start presets deselected instead of selected
	Deselected bool `yaml:"deselected"`
}

type RoomsConfig struct {
	MaxAge     Duration `yaml:"max_age"`
	SweepEvery Duration `yaml:"sweep_every"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Duration reads "48h" style strings
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func Default() *Config {
	return &Config{
		Addr: "0.0.0.0:8115",
		Rooms: RoomsConfig{
			MaxAge:     Duration{48 * time.Hour},
			SweepEvery: Duration{time.Hour},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WORDPICKER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("WORDPICKER_WORDS_FILE"); v != "" {
		c.Words.File = v
	}
	if v := os.Getenv("WORDPICKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must be set")
	}
	if c.Rooms.MaxAge.Duration <= 0 {
		return fmt.Errorf("rooms.max_age must be positive")
	}
	if c.Rooms.SweepEvery.Duration <= 0 {
		return fmt.Errorf("rooms.sweep_every must be positive")
	}
	return nil
}

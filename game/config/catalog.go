// Package config provides the difficulty catalog for the snake core.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"snake-survivor/game/types"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownDifficulty is returned when a difficulty has no catalog entry.
var ErrUnknownDifficulty = errors.New("difficulty not found in catalog")

// Difficulty names a catalog entry.
type Difficulty string

const (
	Easy     Difficulty = "easy"
	Medium   Difficulty = "medium"
	Hard     Difficulty = "hard"
	Survivor Difficulty = "survivor"
)

// AllDifficulties lists the catalog keys in menu order.
var AllDifficulties = []Difficulty{Easy, Medium, Hard, Survivor}

// ParseDifficulty maps a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range AllDifficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Catalog holds every difficulty configuration.
type Catalog struct {
	Difficulties Difficulties `yaml:"difficulties"`
}

// Difficulties has one field per mode so that a user overlay only replaces
// the keys it mentions.
type Difficulties struct {
	Easy     DifficultyConfig `yaml:"easy"`
	Medium   DifficultyConfig `yaml:"medium"`
	Hard     DifficultyConfig `yaml:"hard"`
	Survivor DifficultyConfig `yaml:"survivor"`
}

// DifficultyConfig is the immutable parameter set of one mode.
type DifficultyConfig struct {
	Grid            int            `yaml:"grid"`
	TickMs          int            `yaml:"tick_ms"`
	StartLen        int            `yaml:"start_len"`
	AppleCount      []int          `yaml:"apple_count"` // [min, max] apples on the board
	TimerSec        int            `yaml:"timer_sec"`   // 0 = no timer
	ApplePoints     int            `yaml:"apple_points"`
	StarvationTicks int            `yaml:"starvation_ticks"` // 0 = never starves
	CompletionBonus int            `yaml:"completion_bonus"`
	Borders         types.Borders  `yaml:"borders"`
	Survivor        *SurvivorRules `yaml:"survivor,omitempty"`
}

// SurvivorRules only exist for the endless mode.
type SurvivorRules struct {
	AccelPer100      int `yaml:"accel_per_100"`      // ms removed from the tick per 100 points
	MinTickMs        int `yaml:"min_tick_ms"`
	BorderBlockScore int `yaml:"border_block_score"` // points per newly blocked border
	BounceMs         int `yaml:"bounce_ms"`          // how long a border bounce lasts
	BounceSlowdown   int `yaml:"bounce_slowdown"`    // tick multiplier while bouncing
}

// IsSurvivor reports whether the config describes the endless mode.
func (c DifficultyConfig) IsSurvivor() bool {
	return c.Survivor != nil
}

// MinApples is the lower bound of the apple count range.
func (c DifficultyConfig) MinApples() int {
	if len(c.AppleCount) == 0 {
		return 1
	}
	return c.AppleCount[0]
}

// SeedPoints is the value of a seed: ceil(ApplePoints / 6).
func (c DifficultyConfig) SeedPoints() int {
	return int(math.Ceil(float64(c.ApplePoints) / 6))
}

// WinScore is the score that completes a non-survivor board.
func (c DifficultyConfig) WinScore() int {
	return types.FillTarget(c.Grid) * c.ApplePoints
}

// TickInterval returns the step interval at the given score. Survivor mode
// speeds up by AccelPer100 every 100 points down to MinTickMs.
func (c DifficultyConfig) TickInterval(score int) time.Duration {
	ms := c.TickMs
	if c.Survivor != nil {
		ms -= (score / 100) * c.Survivor.AccelPer100
		if ms < c.Survivor.MinTickMs {
			ms = c.Survivor.MinTickMs
		}
	}
	return time.Duration(ms) * time.Millisecond
}

// BounceDuration is how long a survivor border bounce lasts.
func (c DifficultyConfig) BounceDuration() time.Duration {
	if c.Survivor == nil {
		return 0
	}
	return time.Duration(c.Survivor.BounceMs) * time.Millisecond
}

// Default returns the embedded catalog.
func Default() *Catalog {
	cat, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cat
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Catalog, error) {
	cat := &Catalog{}
	if err := yaml.Unmarshal(defaultsYAML, cat); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cat); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Lookup returns the configuration for d.
func (c *Catalog) Lookup(d Difficulty) (DifficultyConfig, error) {
	var cfg DifficultyConfig
	switch d {
	case Easy:
		cfg = c.Difficulties.Easy
	case Medium:
		cfg = c.Difficulties.Medium
	case Hard:
		cfg = c.Difficulties.Hard
	case Survivor:
		cfg = c.Difficulties.Survivor
	default:
		return DifficultyConfig{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	cfg.AppleCount = append([]int(nil), cfg.AppleCount...)
	if cfg.Survivor != nil {
		rules := *cfg.Survivor
		cfg.Survivor = &rules
	}
	return cfg, nil
}

// Validate checks every entry and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	for _, d := range AllDifficulties {
		cfg, _ := c.Lookup(d)
		if err := cfg.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
	}
	if c.Difficulties.Survivor.Survivor == nil {
		errs = append(errs, errors.New("survivor: missing survivor rules"))
	}
	return errors.Join(errs...)
}

func (c DifficultyConfig) validate() error {
	switch {
	case c.Grid < 4:
		return fmt.Errorf("grid %d too small", c.Grid)
	case c.TickMs <= 0:
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	case c.StartLen < 1 || c.StartLen > c.Grid/2+1:
		return fmt.Errorf("start_len %d does not fit a %d grid", c.StartLen, c.Grid)
	case len(c.AppleCount) != 2 || c.AppleCount[0] < 1 || c.AppleCount[0] > c.AppleCount[1]:
		return fmt.Errorf("apple_count must be [min, max] with 1 <= min <= max, got %v", c.AppleCount)
	case c.ApplePoints <= 0:
		return fmt.Errorf("apple_points must be positive, got %d", c.ApplePoints)
	case c.TimerSec < 0 || c.StarvationTicks < 0:
		return errors.New("timer_sec and starvation_ticks cannot be negative")
	}
	if s := c.Survivor; s != nil {
		if s.BorderBlockScore <= 0 || s.MinTickMs <= 0 || s.BounceSlowdown < 1 || s.BounceMs <= 0 {
			return fmt.Errorf("invalid survivor rules %+v", *s)
		}
	}
	return nil
}

// WriteYAML writes the catalog to a YAML file.
func (c *Catalog) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

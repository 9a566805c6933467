package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sortdojo/internal/engine"
)

// Config controls runtime behavior for the TUI app.
type Config struct {
	Algorithm string
	Count     int
	Seed      int64
	QuizFile  string
	Teaching  bool

	ASCIIOnly bool
	Debug     bool
	DataDir   string
	LogPath   string

	UI UIConfig
}

type UIConfig struct {
	StyleVariant string
	MotionLevel  string
}

func DefaultConfig() Config {
	return Config{
		Count: 32,
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
		},
	}
}

func (c *Config) Validate() error {
	if c.Algorithm != "" {
		if _, err := engine.ParseKind(c.Algorithm); err != nil {
			return err
		}
	}
	if c.Count <= 0 {
		c.Count = 32
	}
	if c.Count > 512 {
		return fmt.Errorf("invalid element count %d (max 512)", c.Count)
	}

	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "sortdojo")
	}

	return nil
}

package gekko

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/gekko3d/gekko-editor/history"
)

type EditorConfig struct {
	History HistoryConfig  `toml:"history"`
	Logging LoggingConfig  `toml:"logging"`
	Editor  EditorSettings `toml:"editor"`
}

type HistoryConfig struct {
	Capacity int `toml:"capacity"` // entries kept before the oldest is evicted
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Prefix string `toml:"prefix"`
}

type EditorSettings struct {
	MergeDrags bool `toml:"merge_drags"` // coalesce gizmo drags into one undo step
	RedoShiftZ bool `toml:"redo_shift_z"`
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*EditorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func DefaultConfig() *EditorConfig {
	return &EditorConfig{
		History: HistoryConfig{
			Capacity: history.DefaultCapacity,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Prefix: "editor",
		},
		Editor: EditorSettings{
			MergeDrags: true,
			RedoShiftZ: true,
		},
	}
}

func (c *EditorConfig) Validate() error {
	if c.History.Capacity < 1 {
		return errors.Errorf("history.capacity must be at least 1, got %d", c.History.Capacity)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return errors.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/mirror/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`  // [logger] table
	History HistoryConfig `toml:"history"` // Undo/redo settings
	Editor  EditorConfig  `toml:"editor"`  // Editor-specific settings
	Relay   RelayConfig   `toml:"relay"`   // Cross-process mirroring
}

// HistoryConfig controls the per-editor action stack.
type HistoryConfig struct {
	MaxEntries      int  `toml:"max_entries"`
	MergeEdits      bool `toml:"merge_edits"`
	MaxDiffTokens   int  `toml:"max_diff_tokens"`    // 0 keeps the engine default
	MaxDiffMemoryMB int  `toml:"max_diff_memory_mb"` // 0 keeps the engine default
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	Panes           int  `toml:"panes"`
	TabWidth        int  `toml:"tab_width"`
	SystemClipboard bool `toml:"system_clipboard"`
}

// RelayConfig describes the websocket relay. An empty URL keeps the
// editors local to the process.
type RelayConfig struct {
	URL      string `toml:"url"`
	Document string `toml:"document"`
	Listen   string `toml:"listen"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		History: HistoryConfig{
			MaxEntries: DefaultMaxHistory,
			MergeEdits: true,
		},
		Editor: EditorConfig{
			Panes:           DefaultPanes,
			TabWidth:        DefaultTabWidth,
			SystemClipboard: SystemClipboard,
		},
		Relay: RelayConfig{
			Document: DefaultDocument,
			Listen:   DefaultListenAddr,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/mirror/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName), nil
}

// loadFromFile decodes filePath over cfg, so keys missing from the file keep
// their current values. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	metadata, err := toml.DecodeFile(filePath, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.History.MaxDiffTokens < 0 {
		c.History.MaxDiffTokens = defaults.History.MaxDiffTokens
	}
	if c.History.MaxDiffMemoryMB < 0 {
		c.History.MaxDiffMemoryMB = defaults.History.MaxDiffMemoryMB
	}

	if c.Editor.Panes < MinPanes || c.Editor.Panes > MaxPanes {
		c.Editor.Panes = defaults.Editor.Panes
	}
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}

	if c.Relay.Document == "" {
		c.Relay.Document = defaults.Relay.Document
	}
	if c.Relay.Listen == "" {
		c.Relay.Listen = defaults.Relay.Listen
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// Load builds the configuration: defaults, then the TOML file, then any
// flags that were set, then validation. An empty configFilePath selects
// DefaultPath. A broken file is reported but the returned config is still
// usable.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		if p, err := DefaultPath(); err == nil {
			effectivePath = p
		}
	}

	var loadErr error
	if effectivePath != "" {
		fileCfg := NewDefaultConfig()
		if err := loadFromFile(effectivePath, fileCfg); err != nil {
			loadErr = err
		} else {
			cfg = fileCfg
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	cfg.validate()
	return cfg, loadErr
}

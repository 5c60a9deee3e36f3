// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/mirror/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	Serve          *string
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
	EnableFiles    *string
	DisableFiles   *string

	MaxHistory      *int
	NoMerge         *bool
	Panes           *int
	SystemClipboard *bool
	RelayURL        *string
	Document        *string
}

// NewFlags defines the command-line flags on fs. Pass flag.CommandLine from main.
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.Serve = fs.String("serve", "", "Run only the relay hub on this address (e.g. :7878)")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.MaxHistory = fs.Int("max-history", 0, "Maximum undo steps per editor - Overrides config file") // 0 means unset
	f.NoMerge = fs.Bool("no-merge", false, "Record every keystroke as its own undo step")
	f.Panes = fs.Int("panes", 0, "Number of mirrored editor panes - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal clipboard")
	f.RelayURL = fs.String("relay", "", "Websocket URL of a relay hub to mirror through")
	f.Document = fs.String("doc", "", "Document name to join on the relay")
	return f
}

// Parse parses args and returns the remaining non-flag arguments (e.g., the file path).
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // Empty string is valid
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		case "max-history":
			if *f.MaxHistory > 0 {
				cfg.History.MaxEntries = *f.MaxHistory // Only override if positive
			}
		case "no-merge":
			cfg.History.MergeEdits = !*f.NoMerge
		case "panes":
			if *f.Panes > 0 {
				cfg.Editor.Panes = *f.Panes
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "relay":
			cfg.Relay.URL = *f.RelayURL
		case "doc":
			if *f.Document != "" {
				cfg.Relay.Document = *f.Document
			}
		case "serve":
			if *f.Serve != "" {
				cfg.Relay.Listen = *f.Serve
			}
		}
	})
}

// Helper function to split comma-separated list (can be moved to util)
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

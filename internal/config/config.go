package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/tasklink/internal/appdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// CorruptPolicy decides what happens when the task file cannot be parsed.
type CorruptPolicy string

const (
	// CorruptAbort stops the command and leaves the file alone.
	CorruptAbort CorruptPolicy = "abort"
	// CorruptBackup moves the file aside and starts from an empty list.
	CorruptBackup CorruptPolicy = "backup"
)

// Default values.
const (
	DefaultStoreFile = appdir.StoreFile
	DefaultDocsDir   = "~/Documents"
	DefaultLogDir    = "~/.tasklink/logs"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tasklink.
type Config struct {
	// Paths
	StoreFile string `toml:"store_file"`
	DocsDir   string `toml:"docs_dir"`
	LogDir    string `toml:"log_dir"`

	// Linking
	Exclude     []string `toml:"exclude"`
	DedupeLinks bool     `toml:"dedupe_links"`

	// What to do with a task file that does not parse
	OnCorrupt CorruptPolicy `toml:"on_corrupt"`

	// Activity journal under LogDir
	Journal bool `toml:"journal"`

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory relative paths resolve against (computed)
	WorkDir string `toml:"-"`
	// Config files that were applied, lowest priority first (computed)
	Files []string `toml:"-"`
}

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config   *Config
	Sources  map[string]ConfigSource
	Warnings []string
}

// Source returns where field was last set.
func (c *ConfigWithSources) Source(field string) ConfigSource {
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return []string{
		"store_file",
		"docs_dir",
		"exclude",
		"dedupe_links",
		"on_corrupt",
		"log_dir",
		"journal",
		"hook_command",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Value returns the display value of a field.
func (c *Config) Value(field string) string {
	switch field {
	case "store_file":
		return c.StoreFile
	case "docs_dir":
		return c.DocsDir
	case "exclude":
		return strings.Join(c.Exclude, ",")
	case "dedupe_links":
		return fmt.Sprint(c.DedupeLinks)
	case "on_corrupt":
		return string(c.OnCorrupt)
	case "log_dir":
		return c.LogDir
	case "journal":
		return fmt.Sprint(c.Journal)
	case "hook_command":
		return c.HookCommand
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	}
	return ""
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.OnCorrupt {
	case CorruptAbort, CorruptBackup:
	default:
		return fmt.Errorf("on_corrupt: invalid value %q (expected abort|backup)", c.OnCorrupt)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: invalid value %q (expected text|json|logfmt)", c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("log_level: invalid value %q (expected debug|info|warn|error|fatal)", c.LogLevel)
	}
	return nil
}

package config

import (
	"os"

	"github.com/nibzard/tasklink/internal/utils"
)

// loadFromEnv overrides config from TASKLINK_* environment variables and
// records them in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		sources[field] = SourceEnv
	}

	if v := os.Getenv("TASKLINK_STORE"); v != "" {
		cfg.StoreFile = v
		set("store_file")
	}
	if v := os.Getenv("TASKLINK_DOCS_DIR"); v != "" {
		cfg.DocsDir = v
		set("docs_dir")
	}
	if v := os.Getenv("TASKLINK_EXCLUDE"); v != "" {
		cfg.Exclude = utils.SplitAndTrim(v, ",")
		set("exclude")
	}
	if v := os.Getenv("TASKLINK_DEDUPE_LINKS"); v != "" {
		cfg.DedupeLinks = utils.ParseBool(v)
		set("dedupe_links")
	}
	if v := os.Getenv("TASKLINK_ON_CORRUPT"); v != "" {
		cfg.OnCorrupt = CorruptPolicy(v)
		set("on_corrupt")
	}
	if v := os.Getenv("TASKLINK_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("TASKLINK_JOURNAL"); v != "" {
		cfg.Journal = utils.ParseBool(v)
		set("journal")
	}
	if v := os.Getenv("TASKLINK_HOOK"); v != "" {
		cfg.HookCommand = v
		set("hook_command")
	}

	// Logging configuration
	if v := os.Getenv("TASKLINK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKLINK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKLINK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = utils.ParseBool(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKLINK_LOG_CALLER"); v != "" {
		cfg.LogCaller = utils.ParseBool(v)
		set("log_caller")
	}
}

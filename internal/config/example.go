package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklink configuration file
# Values can be overridden by TASKLINK_* environment variables or CLI flags

# Task file (relative paths resolve against the working directory)
store_file = "tasks.json"

# Directory scanned for "[<description>] ..." files (supports ~ expansion)
docs_dir = "~/Documents"

# Doublestar patterns, relative to docs_dir, that the scan skips
# exclude = ["**/node_modules", "**/.git"]

# Skip files that are already linked when updating a task
dedupe_links = false

# What to do when the task file cannot be parsed: "abort" or "backup"
on_corrupt = "abort"

# Activity journal (one JSON line per change)
journal = true
log_dir = "~/.tasklink/logs"

# Command run after every change: <action> <task_id> <status> <store_file>
# hook_command = "/path/to/hook.sh"

# Console logging (stderr)
log_level = "warn"    # debug, info, warn, error
log_format = "text"   # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

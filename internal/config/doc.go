// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasklink/tasklink.toml or OS-specific config directory)
// 3. Project config file (tasklink.toml or .tasklink.toml in the working
//    directory), or the file named by --config
// 4. Environment variables (TASKLINK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tasklink/tasklink.toml (preferred)
// - Windows: %APPDATA%\tasklink\tasklink.toml
// - macOS: ~/Library/Application Support/tasklink/tasklink.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasklink/tasklink.toml or ~/.config/tasklink/tasklink.toml
package config

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasklink/internal/appdir"
)

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// WorkDir anchors relative paths and the project config lookup.
	// Defaults to the current working directory.
	WorkDir string
	// ConfigFile, when set, replaces the project config lookup. It must exist.
	ConfigFile string
	// SkipUserFile disables the user-level config file.
	SkipUserFile bool
	// Overrides are applied last, as CLI flags.
	Overrides Overrides
}

// Overrides holds values set explicitly on the command line. Nil fields are
// left alone.
type Overrides struct {
	StoreFile *string
	DocsDir   *string
	LogLevel  *string
	LogFormat *string
}

// Load loads configuration from defaults, config files, the environment and
// overrides, in that order.
func Load(opts LoadOptions) (*Config, error) {
	cws, err := LoadWithSources(opts)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(opts LoadOptions) (*ConfigWithSources, error) {
	cfg := &Config{}
	sources := make(map[string]ConfigSource)

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range Fields() {
		sources[field] = SourceDefault
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}
	cfg.WorkDir = workDir

	var warnings []string

	// 2. User config file
	if !opts.SkipUserFile {
		if path := findUserConfigFile(); path != "" {
			w, err := loadConfigFile(cfg, path, sources, SourceUserFile)
			if err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", path, err)
			}
			warnings = append(warnings, w...)
		}
	}

	// 3. Project config file, or the explicit one
	projectFile := opts.ConfigFile
	if projectFile != "" {
		expanded, err := resolvePath(projectFile, workDir)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(expanded); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		projectFile = expanded
	} else {
		projectFile = findProjectConfigFile(workDir)
	}
	if projectFile != "" {
		w, err := loadConfigFile(cfg, projectFile, sources, SourceProjFile)
		if err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
		warnings = append(warnings, w...)
	}

	// 4. Environment
	loadFromEnv(cfg, sources)

	// 5. Flags
	opts.Overrides.apply(cfg, sources)

	// 6. Derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:   cfg,
		Sources:  sources,
		Warnings: warnings,
	}, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Keys present in the
// file are attributed to source; unknown keys are returned as warnings.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, field := range Fields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	cfg.Files = append(cfg.Files, path)
	expandFileEnv(cfg, md)

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return warnings, nil
}

// expandFileEnv expands environment references in the path values a config
// file set. Flag and TASKLINK_* values are taken literally.
func expandFileEnv(cfg *Config, md toml.MetaData) {
	for _, f := range []struct {
		key string
		val *string
	}{
		{"store_file", &cfg.StoreFile},
		{"docs_dir", &cfg.DocsDir},
		{"log_dir", &cfg.LogDir},
	} {
		if md.IsDefined(f.key) {
			*f.val = expandEnv(*f.val)
		}
	}
}

func (o Overrides) apply(cfg *Config, sources map[string]ConfigSource) {
	if o.StoreFile != nil {
		cfg.StoreFile = *o.StoreFile
		sources["store_file"] = SourceFlag
	}
	if o.DocsDir != nil {
		cfg.DocsDir = *o.DocsDir
		sources["docs_dir"] = SourceFlag
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
		sources["log_level"] = SourceFlag
	}
	if o.LogFormat != nil {
		cfg.LogFormat = *o.LogFormat
		sources["log_format"] = SourceFlag
	}
}

// finalizeConfig resolves the task file path and validates enumerations.
// DocsDir and LogDir stay as written; DocsRoot and LogRoot resolve them on use
// so commands that never scan do not need a home directory.
func finalizeConfig(cfg *Config) error {
	if cfg.StoreFile == "" {
		cfg.StoreFile = appdir.StorePath(cfg.WorkDir)
	}
	store, err := resolvePath(cfg.StoreFile, cfg.WorkDir)
	if err != nil {
		return err
	}
	cfg.StoreFile = store
	return cfg.Validate()
}

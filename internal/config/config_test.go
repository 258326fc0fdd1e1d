// Package config tests configuration loading.
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

var envVars = []string{
	"TASKLINK_STORE",
	"TASKLINK_DOCS_DIR",
	"TASKLINK_EXCLUDE",
	"TASKLINK_DEDUPE_LINKS",
	"TASKLINK_ON_CORRUPT",
	"TASKLINK_LOG_DIR",
	"TASKLINK_JOURNAL",
	"TASKLINK_HOOK",
	"TASKLINK_LOG_LEVEL",
	"TASKLINK_LOG_FORMAT",
	"TASKLINK_LOG_TIMESTAMPS",
	"TASKLINK_LOG_CALLER",
}

// isolate points HOME and the XDG config dir at empty temp dirs and clears
// TASKLINK_* so the developer's own configuration cannot leak in.
func isolate(t *testing.T) (home string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, v := range envVars {
		t.Setenv(v, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func strPtr(s string) *string { return &s }

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.StoreFile != "tasks.json" {
		t.Errorf("StoreFile: got %q, want tasks.json", cfg.StoreFile)
	}
	if cfg.DocsDir != "~/Documents" {
		t.Errorf("DocsDir: got %q, want ~/Documents", cfg.DocsDir)
	}
	if cfg.OnCorrupt != CorruptAbort {
		t.Errorf("OnCorrupt: got %q, want abort", cfg.OnCorrupt)
	}
	if cfg.DedupeLinks {
		t.Error("DedupeLinks: got true, want false")
	}
	if !cfg.Journal {
		t.Error("Journal: got false, want true")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	wd := t.TempDir()

	cws, err := LoadWithSources(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(wd, "tasks.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	if cfg.WorkDir != wd {
		t.Errorf("WorkDir: got %q, want %q", cfg.WorkDir, wd)
	}
	for _, field := range Fields() {
		if got := cws.Source(field); got != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, got)
		}
	}
	if len(cfg.Files) != 0 {
		t.Errorf("Files: got %v, want none", cfg.Files)
	}
}

func TestLoadProjectFile(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "tasklink.toml"), `
store_file = "data/tasks.json"
exclude = ["**/node_modules"]
dedupe_links = true
colour = "blue"
`)

	cws, err := LoadWithSources(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(wd, "data", "tasks.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	if !reflect.DeepEqual(cfg.Exclude, []string{"**/node_modules"}) {
		t.Errorf("Exclude: got %v", cfg.Exclude)
	}
	if !cfg.DedupeLinks {
		t.Error("DedupeLinks: got false, want true")
	}
	if got := cws.Source("store_file"); got != SourceProjFile {
		t.Errorf("source of store_file: got %q, want project file", got)
	}
	if got := cws.Source("docs_dir"); got != SourceDefault {
		t.Errorf("source of docs_dir: got %q, want default", got)
	}
	if len(cws.Warnings) != 1 || !strings.Contains(cws.Warnings[0], "colour") {
		t.Errorf("Warnings: got %v, want one about colour", cws.Warnings)
	}
}

func TestLoadDotfileProjectConfig(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, ".tasklink.toml"), `on_corrupt = "backup"`)

	cfg, err := Load(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OnCorrupt != CorruptBackup {
		t.Errorf("OnCorrupt: got %q, want backup", cfg.OnCorrupt)
	}
}

func TestLoadUserFileThenProjectFile(t *testing.T) {
	home := isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(home, ".tasklink", "tasklink.toml"), `
docs_dir = "/srv/docs"
log_level = "info"
`)
	writeFile(t, filepath.Join(wd, "tasklink.toml"), `log_level = "debug"`)

	cws, err := LoadWithSources(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.DocsDir != "/srv/docs" {
		t.Errorf("DocsDir: got %q, want /srv/docs", cfg.DocsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if got := cws.Source("docs_dir"); got != SourceUserFile {
		t.Errorf("source of docs_dir: got %q, want user file", got)
	}
	if got := cws.Source("log_level"); got != SourceProjFile {
		t.Errorf("source of log_level: got %q, want project file", got)
	}
	if len(cfg.Files) != 2 {
		t.Errorf("Files: got %v, want user and project file", cfg.Files)
	}

	cws, err = LoadWithSources(LoadOptions{WorkDir: wd, SkipUserFile: true})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Config.DocsDir != DefaultDocsDir {
		t.Errorf("SkipUserFile: DocsDir got %q, want default", cws.Config.DocsDir)
	}
}

func TestLoadXDGUserFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is linux/BSD only")
	}
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "tasklink", "tasklink.toml"), `journal = false`)

	cfg, err := Load(LoadOptions{WorkDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false from XDG config")
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "tasklink.toml"), `store_file = "from-file.json"`)

	t.Setenv("TASKLINK_STORE", "from-env.json")
	t.Setenv("TASKLINK_EXCLUDE", "a/**, b/**")
	t.Setenv("TASKLINK_DEDUPE_LINKS", "yes")
	t.Setenv("TASKLINK_JOURNAL", "0")
	t.Setenv("TASKLINK_HOOK", "notify")
	t.Setenv("TASKLINK_LOG_FORMAT", "json")

	cws, err := LoadWithSources(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(wd, "from-env.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	if !reflect.DeepEqual(cfg.Exclude, []string{"a/**", "b/**"}) {
		t.Errorf("Exclude: got %v", cfg.Exclude)
	}
	if !cfg.DedupeLinks || cfg.Journal {
		t.Errorf("DedupeLinks/Journal: got %v/%v, want true/false", cfg.DedupeLinks, cfg.Journal)
	}
	if cfg.HookCommand != "notify" || cfg.LogFormat != "json" {
		t.Errorf("HookCommand/LogFormat: got %q/%q", cfg.HookCommand, cfg.LogFormat)
	}
	if got := cws.Source("store_file"); got != SourceEnv {
		t.Errorf("source of store_file: got %q, want environment", got)
	}
}

func TestOverridesWin(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	t.Setenv("TASKLINK_STORE", "from-env.json")
	t.Setenv("TASKLINK_LOG_LEVEL", "error")

	abs := filepath.Join(t.TempDir(), "flag.json")
	cws, err := LoadWithSources(LoadOptions{
		WorkDir: wd,
		Overrides: Overrides{
			StoreFile: strPtr(abs),
			DocsDir:   strPtr("docs"),
			LogLevel:  strPtr("debug"),
		},
	})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.StoreFile != abs {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, abs)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if got := cws.Source("log_level"); got != SourceFlag {
		t.Errorf("source of log_level: got %q, want flag", got)
	}
	root, err := cfg.DocsRoot()
	if err != nil {
		t.Fatalf("DocsRoot: %v", err)
	}
	if want := filepath.Join(wd, "docs"); root != want {
		t.Errorf("DocsRoot: got %q, want %q", root, want)
	}
}

func TestEnvExpansionOnlyInConfigFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses $VAR syntax")
	}
	isolate(t)
	wd := t.TempDir()
	t.Setenv("TASKLINK_TEST_DIR", filepath.Join(wd, "expanded"))
	writeFile(t, filepath.Join(wd, "tasklink.toml"), `
docs_dir = "$TASKLINK_TEST_DIR/docs"
log_dir = "${TASKLINK_TEST_DIR}/logs"
`)

	cfg, err := Load(LoadOptions{
		WorkDir:   wd,
		Overrides: Overrides{StoreFile: strPtr("a$b.json")},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if want := filepath.Join(wd, "a$b.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	root, err := cfg.DocsRoot()
	if err != nil {
		t.Fatalf("DocsRoot: %v", err)
	}
	if want := filepath.Join(wd, "expanded", "docs"); root != want {
		t.Errorf("DocsRoot: got %q, want %q", root, want)
	}
	logs, err := cfg.LogRoot()
	if err != nil {
		t.Fatalf("LogRoot: %v", err)
	}
	if want := filepath.Join(wd, "expanded", "logs"); logs != want {
		t.Errorf("LogRoot: got %q, want %q", logs, want)
	}

	t.Setenv("TASKLINK_STORE", "env$x.json")
	cfg, err = Load(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(wd, "env$x.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile from env: got %q, want %q", cfg.StoreFile, want)
	}
}

func TestExplicitConfigFile(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "tasklink.toml"), `log_level = "info"`)
	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicit, `log_level = "error"`)

	cfg, err := Load(LoadOptions{WorkDir: wd, ConfigFile: explicit})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error (project file must be ignored)", cfg.LogLevel)
	}

	_, err = Load(LoadOptions{WorkDir: wd, ConfigFile: filepath.Join(wd, "missing.toml")})
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", `store_file = `},
		{"bad on_corrupt", `on_corrupt = "ignore"`},
		{"bad log_format", `log_format = "xml"`},
		{"bad log_level", `log_level = "loud"`},
		{"wrong type", `dedupe_links = "maybe"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			wd := t.TempDir()
			writeFile(t, filepath.Join(wd, "tasklink.toml"), tt.content)
			if _, err := Load(LoadOptions{WorkDir: wd}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME is not consulted on windows")
	}
	home := isolate(t)
	t.Setenv("TASKLINK_TEST_DIR", "/opt/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/Documents", filepath.Join(home, "Documents")},
		{"$TASKLINK_TEST_DIR/docs", "$TASKLINK_TEST_DIR/docs"},
		{"a$b.json", "a$b.json"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}

	t.Setenv("HOME", "")
	if _, err := ExpandPath("~/Documents"); err == nil {
		t.Error("expected error when home directory is unavailable")
	}
	if got, err := ExpandPath("/still/fine"); err != nil || got != "/still/fine" {
		t.Errorf("absolute path without home: got %q, %v", got, err)
	}
}

func TestLoadWithoutHomeStillResolvesStore(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME is not consulted on windows")
	}
	isolate(t)
	t.Setenv("HOME", "")
	wd := t.TempDir()

	cfg, err := Load(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("Load should not need a home directory: %v", err)
	}
	if _, err := cfg.DocsRoot(); err == nil {
		t.Error("DocsRoot: expected error without home directory")
	}
}

func TestConfigValue(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Exclude = []string{"a", "b"}

	if got := cfg.Value("exclude"); got != "a,b" {
		t.Errorf("Value(exclude): got %q", got)
	}
	if got := cfg.Value("journal"); got != "true" {
		t.Errorf("Value(journal): got %q", got)
	}
	for _, field := range Fields() {
		if field == "hook_command" || field == "exclude" {
			continue
		}
		if cfg.Value(field) == "" {
			t.Errorf("Value(%s) is empty", field)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	var cfg Config
	setDefaults(&cfg)
	md, err := toml.Decode(ExampleConfig(), &cfg)
	if err != nil {
		t.Fatalf("decode example config: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		t.Errorf("example config has unknown keys: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config does not validate: %v", err)
	}
}

func TestEmptyPathsFallBack(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME is not consulted on windows")
	}
	home := isolate(t)
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "tasklink.toml"), "store_file = \"\"\ndocs_dir = \"\"\n")

	cfg, err := Load(LoadOptions{WorkDir: wd})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(wd, "tasks.json"); cfg.StoreFile != want {
		t.Errorf("StoreFile: got %q, want %q", cfg.StoreFile, want)
	}
	root, err := cfg.DocsRoot()
	if err != nil {
		t.Fatalf("DocsRoot: %v", err)
	}
	if want := filepath.Join(home, "Documents"); root != want {
		t.Errorf("DocsRoot: got %q, want %q", root, want)
	}
}

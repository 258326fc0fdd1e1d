package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/tasklink/internal/linker"
)

// ExpandPath expands a leading ~ in p. It fails only when p needs the home
// directory and it cannot be resolved. Environment references are left as
// written; config file values get those expanded when the file is loaded.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}

	expanded := p
	if expanded != "~" && !strings.HasPrefix(expanded, "~/") &&
		!(runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		return expanded, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: resolve home directory: %w", p, err)
	}
	if expanded == "~" {
		return home, nil
	}
	return filepath.Join(home, expanded[2:]), nil
}

// resolvePath expands p and makes it absolute relative to workDir.
func resolvePath(p, workDir string) (string, error) {
	expanded, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	if expanded == "" || filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Join(workDir, expanded), nil
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

// expandWindowsEnv replaces %VAR% references, leaving unknown ones intact.
func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end > 0 {
				key := p[i+1 : i+1+end]
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteString("%" + key + "%")
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}

// DocsRoot returns the absolute directory the file linker scans. An empty
// docs_dir means ~/Documents.
func (c *Config) DocsRoot() (string, error) {
	if c.DocsDir == "" {
		return linker.DefaultRoot()
	}
	return resolvePath(c.DocsDir, c.WorkDir)
}

// LogRoot returns the absolute journal directory.
func (c *Config) LogRoot() (string, error) {
	return resolvePath(c.LogDir, c.WorkDir)
}

// Package linker finds files on disk that are tagged with a task description.
//
// A file belongs to a task when its base name starts with the task's
// description in square brackets, for example "[Write report] notes.txt".
// The match is verbatim and case-sensitive.
package linker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// DefaultDocsDir is the directory under the home directory that is scanned
// when no root is configured.
const DefaultDocsDir = "Documents"

// Tag returns the filename prefix that links a file to description.
func Tag(description string) string {
	return "[" + description + "]"
}

// DefaultRoot returns <home>/Documents.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if home == "" {
		return "", errors.New("resolve home directory: empty path")
	}
	return filepath.Join(home, DefaultDocsDir), nil
}

// Linker scans a directory tree for tagged entries.
type Linker struct {
	// Root is the directory to scan.
	Root string
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to Root. Matching directories are not descended into.
	Exclude []string
	// Logger receives per-entry walk errors at debug level. May be nil.
	Logger *log.Logger
}

// New returns a linker rooted at root.
func New(root string, exclude []string, logger *log.Logger) (*Linker, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Linker{Root: root, Exclude: exclude, Logger: logger}, nil
}

// Link walks Root and returns the full path of every entry whose base name
// starts with Tag(description). Results follow walk order and are reported
// under Root even when Root is a symlink. Entries that cannot be read are
// skipped, and a missing root yields no matches.
func (l *Linker) Link(ctx context.Context, description string) ([]string, error) {
	tag := Tag(description)
	matches := []string{}

	walkRoot := l.Root
	if resolved, err := filepath.EvalSymlinks(l.Root); err == nil {
		walkRoot = resolved
	} else if errors.Is(err, fs.ErrNotExist) {
		l.debug("documents root does not exist", "root", l.Root)
		return matches, nil
	}

	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			l.debug("skipping unreadable entry", "path", path, "err", err)
			if d != nil && d.IsDir() && path != walkRoot {
				return fs.SkipDir
			}
			return nil
		}
		if path == walkRoot {
			if strings.HasPrefix(filepath.Base(l.Root), tag) {
				matches = append(matches, l.Root)
			}
			return nil
		}
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil
		}
		if l.excluded(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), tag) {
			matches = append(matches, filepath.Join(l.Root, rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", l.Root, err)
	}
	return matches, nil
}

// excluded reports whether rel, relative to the root, matches an exclude
// pattern.
func (l *Linker) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range l.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (l *Linker) debug(msg string, keyvals ...any) {
	if l.Logger != nil {
		l.Logger.Debug(msg, keyvals...)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nibzard/tasklink/internal/config"
	"github.com/nibzard/tasklink/internal/store"
)

// errDoctorFailed is returned when at least one check fails.
var errDoctorFailed = errors.New("doctor checks failed")

func newDoctorCommand() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check configuration, the task file and the documents directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "List every task in the task file",
			},
		},
		Action: runDoctor,
	}
}

func runDoctor(_ context.Context, cmd *cli.Command) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	w := env.out
	cfg := env.cfg.Config
	verbose := cmd.Bool("verbose")

	fmt.Fprintln(w, "Tasklink Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config values and where they came from
	fmt.Fprintln(w, "Config:")
	if len(cfg.Files) == 0 {
		fmt.Fprintln(w, "  Files: (none)")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(w, "  File: %s\n", f)
	}
	for _, field := range config.Fields() {
		value := cfg.Value(field)
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(w, "  %-15s %s [%s]\n", field, value, env.cfg.Source(field))
	}
	for _, warning := range env.cfg.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintln(w)

	if !checkTaskFile(w, env.tracker.Store(), verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Documents directory
	docsRoot, err := cfg.DocsRoot()
	if err != nil {
		fmt.Fprintf(w, "Documents directory: %s\n", cfg.DocsDir)
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "Documents directory: %s\n", docsRoot)
		if info, err := os.Stat(docsRoot); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (updates will link nothing)")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			}
		} else if !info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is not a directory")
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Journal
	if cfg.Journal {
		journal, err := env.tracker.Journal()
		if err != nil {
			fmt.Fprintf(w, "Journal: %s\n", cfg.LogDir)
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "Journal: %s\n", journal.Path)
			if _, err := os.Stat(journal.Path); err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(w, "  ⚠️  Not found (will be created on the next change)")
				} else {
					fmt.Fprintf(w, "  ❌ Error: %v\n", err)
					allOK = false
				}
			} else {
				fmt.Fprintln(w, "  ✅ OK")
			}
		}
	} else {
		fmt.Fprintln(w, "Journal: disabled")
	}
	fmt.Fprintln(w)

	// Hook
	if cfg.HookCommand != "" {
		fmt.Fprintln(w, "Hook:")
		if !checkBinary(w, "hook_command", cfg.HookCommand) {
			allOK = false
		}
		fmt.Fprintln(w)
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasklink may not function correctly.")
	return errDoctorFailed
}

// checkTaskFile reports presence and schema validity of the task file.
func checkTaskFile(w io.Writer, s *store.Store, verbose bool) bool {
	fmt.Fprintf(w, "Task file: %s\n", s.Path)
	exists, err := s.Exists()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if !exists {
		fmt.Fprintln(w, "  ⚠️  Not found (will be created by --create)")
		return true
	}

	result, err := s.Validate()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", result.Tasks)

	if verbose {
		tasks, err := s.Load()
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			return false
		}
		for _, t := range tasks {
			fmt.Fprintf(w, "    - [%s] %s: %s\n", t.Status, shortID(t.ID), t.Description)
		}
	}
	return true
}

func checkBinary(w io.Writer, label, binary string) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			fmt.Fprintln(w, "  ❌ Path is a directory")
			return false
		}
		if !isExecutablePath(binary, info) {
			fmt.Fprintln(w, "  ❌ Not executable")
			return false
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Not found: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}

func isExecutablePath(path string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return isWindowsExecutable(path)
	}
	return info.Mode().Perm()&0o111 != 0
}

func isWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, e := range strings.Split(pathext, ";") {
		if strings.EqualFold(strings.TrimSpace(e), ext) {
			return true
		}
	}
	return false
}

// Package hooks invokes the external command configured to run after a task
// changes.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Options configures a hook invocation.
type Options struct {
	Command   string
	Action    string
	TaskID    string
	Status    string
	StorePath string
	WorkDir   string
	// Output receives the hook's stdout and stderr. Defaults to os.Stderr so
	// the command's own result line stays alone on stdout.
	Output io.Writer
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command as
//
//	<command> <action> <task_id> <status> <store_path>
//
// An empty command is a no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	args := []string{opts.Action, opts.TaskID, opts.Status, opts.StorePath}
	cmd := exec.CommandContext(ctx, opts.Command, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Env = append(os.Environ(),
		"TASKLINK_ACTION="+opts.Action,
		"TASKLINK_TASK_ID="+opts.TaskID,
		"TASKLINK_TASK_STATUS="+opts.Status,
		"TASKLINK_STORE_PATH="+opts.StorePath,
	)

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultShell runs helper commands.
const DefaultShell = "sh"

const waitDelay = 2 * time.Second

// Executor runs shell commands synchronously and captures their stdout.
type Executor struct {
	shell  string
	stderr io.Writer
	env    []string
	dir    string

	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Shell  string    // Shell used as "<shell> -c <command>" (default: sh)
	Stderr io.Writer // Receives the command's stderr (default: discarded)
	Env    []string  // Additional environment variables
	Dir    string    // Working directory
}

// NewExecutor creates an executor. A nil opts uses the defaults.
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	shell := opts.Shell
	if shell == "" {
		shell = DefaultShell
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	return &Executor{
		shell:       shell,
		stderr:      stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: exec.CommandContext,
	}
}

// Shell returns the shell commands are run with.
func (e *Executor) Shell() string {
	return e.shell
}

// Output runs command through the shell with env appended to the process
// environment and returns its stdout. A non-zero exit returns an error
// wrapping *exec.ExitError.
func (e *Executor) Output(ctx context.Context, command string, stderr io.Writer, env ...string) (string, error) {
	cmd := e.commandFunc(ctx, e.shell, "-c", command)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	cmd.Env = append(append(os.Environ(), e.env...), env...)
	// Background children of a killed shell can hold the output pipes open.
	cmd.WaitDelay = waitDelay

	if stderr == nil {
		stderr = e.stderr
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s cancelled: %w", e.shell, ctx.Err())
		}
		if isCommandNotFound(err) {
			return "", enhanceError(err, e.shell)
		}
		return "", err
	}
	return stdout.String(), nil
}

// ExitCode extracts the exit status from err, or -1 if err does not carry
// one.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "no such file or directory")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, cmd)
}

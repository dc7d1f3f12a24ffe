package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mu          sync.Mutex
	stdout      io.Writer = os.Stdout
	stderr      io.Writer = os.Stderr
	verboseMode bool
)

// SetOutput redirects output. A nil writer restores the default stream.
// Tests use this to capture what the CLI prints.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

func writeLine(toStderr bool, s string) {
	mu.Lock()
	defer mu.Unlock()
	if toStderr {
		fmt.Fprintln(stderr, s)
		return
	}
	fmt.Fprintln(stdout, s)
}

// Success prints a success message with 🔥 emoji and green color.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Generated myapp")
func Success(msg string) {
	writeLine(false, successStyle.Render("🔥 "+msg))
}

// Error prints an error message with ❌ emoji and red color to stderr.
func Error(msg string) {
	writeLine(true, errorStyle.Render("❌ "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	writeLine(false, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("cd myapp")
func Step(msg string) {
	writeLine(false, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message with 🔍 emoji to stderr, only if verbose
// mode is enabled.
func Verbose(msg string) {
	if IsVerbose() {
		writeLine(true, stepStyle.Render("🔍 "+msg))
	}
}

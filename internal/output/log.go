// Package output provides terminal output utilities.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LogConfig configures the global logger.
type LogConfig struct {
	// Verbose enables debug output, including every external command before it runs.
	Verbose bool

	// Quiet suppresses informational output. Combined with Verbose, progress
	// lines are written to stdout as single lines without timestamps.
	Quiet bool

	// Timestamps controls timestamps outside quiet mode. nil means "on when verbose".
	Timestamps *bool
}

var (
	// logger is the global logger instance.
	logger *log.Logger

	// current holds the config passed to the last SetupLogging call.
	current LogConfig

	// stdout is where user-facing output goes.
	stdout io.Writer = os.Stdout
)

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// SetupLogging configures the logger from cfg.
func SetupLogging(cfg LogConfig) {
	current = cfg

	switch {
	case cfg.Quiet && cfg.Verbose:
		logger = log.NewWithOptions(stdout, log.Options{
			Level:           log.DebugLevel,
			ReportTimestamp: false,
			ReportCaller:    false,
		})
	case cfg.Quiet:
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           log.FatalLevel,
			ReportTimestamp: false,
		})
	default:
		level := log.InfoLevel
		if cfg.Verbose {
			level = log.DebugLevel
		}
		timestamps := cfg.Verbose
		if cfg.Timestamps != nil {
			timestamps = *cfg.Timestamps
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:           level,
			ReportTimestamp: timestamps,
			ReportCaller:    cfg.Verbose,
			TimeFormat:      "15:04:05",
		})
	}
}

// SetStdout redirects user-facing output and returns the previous writer.
func SetStdout(w io.Writer) io.Writer {
	prev := stdout
	stdout = w
	return prev
}

// IsQuiet reports whether quiet mode is active.
func IsQuiet() bool {
	return current.Quiet
}

// IsVerbose reports whether verbose mode is active.
func IsVerbose() bool {
	return current.Verbose
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// StepLogger returns a child logger prefixed with a step name.
func StepLogger(step string) *log.Logger {
	return logger.WithPrefix(StyleDim.Render("step:") + step)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Command logs an external command before it runs. Only visible with --verbose.
func Command(dir, name string, args ...string) {
	logger.Debug("running", "cmd", strings.TrimSpace(name+" "+strings.Join(args, " ")), "dir", dir)
}

// Print prints a message to stdout without any formatting.
// Suppressed in quiet mode.
func Print(msg string) {
	if current.Quiet {
		return
	}
	_, _ = io.WriteString(stdout, msg)
}

// Println prints a message to stdout with a newline.
// Suppressed in quiet mode.
func Println(msg string) {
	Print(msg + "\n")
}

// Result prints a single-line result. In quiet mode it is only shown with --verbose.
func Result(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if current.Quiet {
		if current.Verbose {
			_, _ = fmt.Fprintln(stdout, line)
		}
		return
	}
	_, _ = fmt.Fprintln(stdout, line)
}

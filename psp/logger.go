package psp

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Logger is a terse progress logger. A nil *Logger discards everything.
type Logger struct {
	w          io.Writer
	stepStart  time.Time
	totalStart time.Time
}

// NewLogger creates a logger writing to w (stdout when w is nil).
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		w:          w,
		totalStart: time.Now(),
	}
}

// Step starts a processing step
// format: [name] param ...
func (l *Logger) Step(name string, params ...interface{}) {
	if l == nil {
		return
	}
	l.stepStart = time.Now()
	if len(params) > 0 {
		fmt.Fprintf(l.w, "[%s] %v ... ", name, params[0])
	} else {
		fmt.Fprintf(l.w, "[%s] ", name)
	}
}

// Done finishes the current step
// format: → result (elapsed)
func (l *Logger) Done(result string) {
	if l == nil {
		return
	}
	elapsed := time.Since(l.stepStart)
	if elapsed > 100*time.Millisecond {
		fmt.Fprintf(l.w, "→ %s (%.2fs)\n", result, elapsed.Seconds())
	} else {
		fmt.Fprintf(l.w, "→ %s\n", result)
	}
}

// Total prints the overall elapsed time
func (l *Logger) Total() {
	if l == nil {
		return
	}
	total := time.Since(l.totalStart)
	fmt.Fprintf(l.w, "\n✓ total: %.2fs\n", total.Seconds())
}

// Info prints an untimed message
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "  • "+format+"\n", args...)
}

// Warn prints a warning
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, "  ⚠ "+format+"\n", args...)
}

var debugEnabled = os.Getenv("DEBUG") != ""

// Debug prints a trace line when the DEBUG environment variable is set.
func Debug(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Printf(format+"\n", args...)
	}
}

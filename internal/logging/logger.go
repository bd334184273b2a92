// Package logging provides the leveled console logger with an optional
// append-only log file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/backmassage/mp4tomp3/internal/config"
	"github.com/backmassage/mp4tomp3/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with optional file sink.
// ERROR lines go to the error writer; everything else to the output writer.
// The log file always receives plain (uncolored) text.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	file     *os.File
	filePath string
	now      func() time.Time
}

// New returns a console-only logger writing to out and errOut.
func New(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{out: out, errOut: errOut, verbose: verbose, now: time.Now}
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile for
// appending. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := New(os.Stdout, os.Stderr, cfg.Verbose)

	if cfg.LogFile != "" {
		if err := l.openFile(cfg.LogFile); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Logger) openFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	l.filePath = path
	return nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Verbose reports whether DEBUG lines are emitted.
func (l *Logger) Verbose() bool { return l.verbose }

func (l *Logger) line(level string, c *color.Color, text string) {
	ts := l.now().Format(timeLayout)
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	_, _ = io.WriteString(out, ts+" "+c.Sprint("["+level+"]")+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...any) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...any) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...any) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to the error writer.
func (l *Logger) Error(format string, args ...any) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}

// Block writes pre-rendered multi-line text (tables, banners) to the output
// writer and the log file without a level prefix.
func (l *Logger) Block(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, text)
	if l.file != nil {
		_, _ = io.WriteString(l.file, text)
	}
}

// Blank writes an empty separator line to the console only.
func (l *Logger) Blank() {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, "\n")
}

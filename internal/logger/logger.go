package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
)

// LogFilePath is the path to the designer log file, relative to the working directory.
const LogFilePath = "logs/designer.txt"

// MaxLines bounds the in-memory history shown by the console.
const MaxLines = 500

// Level tags a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

var levelTags = [...]string{"", "WARN ", "ERROR "}

var levelStyles = [...]color.Style{
	{color.FgGray},
	{color.FgYellow},
	{color.FgRed, color.OpBold},
}

// Logger stores lines in memory for the console overlay and appends them to a file on disk.
type Logger struct {
	mu    sync.Mutex
	lines []string
	path  string
	echo  bool
}

// New returns a Logger writing to LogFilePath and ensures the logs directory exists.
func New() *Logger {
	return NewWithPath(LogFilePath)
}

// NewWithPath logs to path. An empty path keeps lines in memory only.
func NewWithPath(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{lines: make([]string, 0), path: path}
}

// SetEcho mirrors every line to stderr in colour.
func (l *Logger) SetEcho(on bool) {
	l.mu.Lock()
	l.echo = on
	l.mu.Unlock()
}

// Log appends an info line. Each entry is prefixed with [timestamp] using computer time.
func (l *Logger) Log(line string) { l.write(LevelInfo, line) }

func (l *Logger) Logf(format string, args ...any) { l.write(LevelInfo, fmt.Sprintf(format, args...)) }

func (l *Logger) Warnf(format string, args ...any) { l.write(LevelWarn, fmt.Sprintf(format, args...)) }

func (l *Logger) Errorf(format string, args ...any) { l.write(LevelError, fmt.Sprintf(format, args...)) }

// Write lets the logger sit behind an io.Writer, e.g. HTTP access logs. One call is one line.
func (l *Logger) Write(p []byte) (int, error) {
	l.write(LevelInfo, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (l *Logger) write(level Level, line string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + levelTags[level] + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > MaxLines {
		l.lines = l.lines[len(l.lines)-MaxLines:]
	}
	echo, path := l.echo, l.path
	l.mu.Unlock()

	if echo {
		fmt.Fprintln(os.Stderr, levelStyles[level].Sprint(stamped))
	}
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "designer.txt")
	l := NewWithPath(path)
	l.Log("hello")
	l.Errorf("save failed: %s", "disk full")

	lines := l.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasSuffix(lines[0], "] hello") {
		t.Errorf("info line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "] ERROR save failed: disk full") {
		t.Errorf("error line = %q", lines[1])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 2 {
		t.Errorf("file = %q", data)
	}
}

func TestWriterTrimsNewline(t *testing.T) {
	l := NewWithPath("")
	n, err := l.Write([]byte("GET /health/live 200\n"))
	if err != nil || n != 21 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if got := l.Lines()[0]; !strings.HasSuffix(got, "] GET /health/live 200") {
		t.Errorf("line = %q", got)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	l := NewWithPath("")
	for i := 0; i < MaxLines+10; i++ {
		l.Logf("line %d", i)
	}
	lines := l.Lines()
	if len(lines) != MaxLines || !strings.HasSuffix(lines[0], "line 10") {
		t.Errorf("len = %d first = %q", len(lines), lines[0])
	}
}

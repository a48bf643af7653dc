package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDESIGNER_TEST_A=one\nexport DESIGNER_TEST_B=\"two words\"\nnot a pair\nDESIGNER_TEST_C='3'\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DESIGNER_TEST_C", "preset")
	t.Setenv("DESIGNER_TEST_A", "")
	os.Unsetenv("DESIGNER_TEST_A")
	t.Setenv("DESIGNER_TEST_B", "")
	os.Unsetenv("DESIGNER_TEST_B")

	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	tests := map[string]string{
		"DESIGNER_TEST_A": "one",
		"DESIGNER_TEST_B": "two words",
		"DESIGNER_TEST_C": "preset",
	}
	for k, want := range tests {
		if got := os.Getenv(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("missing file err = %v", err)
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("DESIGNER_TEST_INT", "42")
	t.Setenv("DESIGNER_TEST_BAD", "x")
	t.Setenv("DESIGNER_TEST_F", "0.25")

	if got := Int("DESIGNER_TEST_INT", 1); got != 42 {
		t.Errorf("Int = %d", got)
	}
	if got := Int("DESIGNER_TEST_BAD", 7); got != 7 {
		t.Errorf("Int fallback = %d", got)
	}
	if got := Float("DESIGNER_TEST_F", 1); got != 0.25 {
		t.Errorf("Float = %v", got)
	}
	if got := Seconds("DESIGNER_TEST_INT", time.Second); got != 42*time.Second {
		t.Errorf("Seconds = %v", got)
	}
	if got := String("DESIGNER_TEST_UNSET", "def"); got != "def" {
		t.Errorf("String = %q", got)
	}
}

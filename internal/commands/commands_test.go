package commands

import (
	"errors"
	"flag"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"add Sofa", []string{"add", "Sofa"}},
		{"/mode  tour ", []string{"mode", "tour"}},
		{`color "light gray"`, []string{"color", "light gray"}},
		{`save ""`, []string{"save", ""}},
	}
	for _, tt := range tests {
		if got := Parse(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestExecuteFlagsAndArgs(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("nudge", flag.ContinueOnError)
	step := fs.Float64("step", 0.5, "")
	var got []string
	r.Register("nudge", "[-step n] axis", fs, func(args []string) error {
		got = args
		return nil
	})

	if err := r.Run("nudge -step 2 x"); err != nil {
		t.Fatal(err)
	}
	if *step != 2 || !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("step = %v, args = %q", *step, got)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("select", "id", nil, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		return nil
	})

	if err := r.Run(""); err == nil {
		t.Error("empty line should fail")
	}
	if err := r.Run("nope"); err == nil {
		t.Error("unknown command should fail")
	}
	if err := r.Run("select -bogus"); err == nil {
		t.Error("unknown flag should fail")
	}
	if err := r.Run("select"); !errors.Is(err, ErrUsage) {
		t.Errorf("err = %v, want ErrUsage", err)
	}
}

func TestHelpSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("save", "[name]", nil, func([]string) error { return nil })
	r.Register("add", "type", nil, func([]string) error { return nil })
	r.Register("list", "", nil, func([]string) error { return nil })
	want := []string{"add type", "list", "save [name]"}
	if got := r.Help(); !reflect.DeepEqual(got, want) {
		t.Errorf("Help = %q, want %q", got, want)
	}
}

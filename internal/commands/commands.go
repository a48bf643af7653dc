// Package commands is the console command registry: each command owns a flag.FlagSet and is run
// with the remaining positional arguments.
package commands

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"
)

// ErrUsage is wrapped by Execute when a command is called with missing or malformed arguments.
var ErrUsage = errors.New("usage")

// Command is a subcommand with its own flags. Run is called after Parse with the positional args.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds subcommands by name.
type Registry struct {
	cmds map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. A nil fs gets an empty flag set. Registering a name twice replaces
// the earlier command.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(&bytes.Buffer{})
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Help returns one "name usage" line per command.
func (r *Registry) Help() []string {
	names := r.Names()
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimSpace(name + " " + r.cmds[name].Usage)
	}
	return out
}

// Parse splits a console line into arguments. A leading "/" is accepted and dropped.
// Double quotes group words: `color "light gray"` yields two arguments.
func Parse(line string) []string {
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	var (
		args   []string
		cur    strings.Builder
		quoted bool
		inArg  bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			quoted = !quoted
			inArg = true
		case ch == ' ' && !quoted:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}

// Execute runs the subcommand in args[0] with args[1:] as flag and positional arguments.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	if err := cmd.Run(cmd.FlagSet.Args()); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s %s", ErrUsage, cmd.Name, cmd.Usage)
		}
		return err
	}
	return nil
}

// Run parses and executes a console line.
func (r *Registry) Run(line string) error {
	return r.Execute(Parse(line))
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/afero"
)

var (
	// ErrExit is returned by Dispatch when the session should end.
	ErrExit = errors.New("exit")

	// ErrMissingOperand is logged when a built-in is called without the
	// operands it needs.
	ErrMissingOperand = errors.New("missing operand")

	errRemoveWorkDir = errors.New("refusing to remove the working directory")
)

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]*Builtin)

// BuiltinFunc runs a built-in. args[0] is the name the built-in was called
// by. The returned text is what the built-in produces for a pipe.
type BuiltinFunc func(ctx context.Context, s *Shell, args []string) (string, error)

// Builtin is a command implemented by the shell itself.
type Builtin struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description.
	Short string
	// Operands is the number of operands that must follow the name.
	Operands int
	// Output is set for built-ins whose text is printed when not piped.
	Output bool

	Main BuiltinFunc
}

// BuiltinEntry is a named Builtin.
type BuiltinEntry struct {
	Name string
	*Builtin
}

// ListBuiltins returns the registered built-ins sorted by name.
func ListBuiltins() []BuiltinEntry {
	var out []BuiltinEntry
	for name, builtin := range AllBuiltins {
		out = append(out, BuiltinEntry{Name: name, Builtin: builtin})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Exit quits the shell.
func Exit(ctx context.Context, s *Shell, args []string) (string, error) {
	return "", ErrExit
}

// Ptime reports the time spent in child processes.
func Ptime(ctx context.Context, s *Shell, args []string) (string, error) {
	return fmt.Sprintf("Total time in child processes: %.4f seconds", s.runner.Total().Seconds()), nil
}

// List describes the entries of the current directory.
func List(ctx context.Context, s *Shell, args []string) (string, error) {
	out, err := FormatListing(s.WorkDir.FS(), s.WorkDir.Getwd(), s.location)
	if err != nil {
		s.log.InvalidInvocation(args, err)
		s.errorf("Error: cannot list %s", s.WorkDir.Getwd())
		return "", nil
	}
	return out, nil
}

// Cd is the cd shell builtin.
func Cd(ctx context.Context, s *Shell, args []string) (string, error) {
	if len(args) < 2 {
		s.WorkDir.Home()
		return "", nil
	}

	if err := s.WorkDir.Chdir(args[1]); err != nil {
		s.log.InvalidInvocation(args, err)
		s.errorf("Error: directory %s does not exist", args[1])
	}
	return "", nil
}

// Here returns the current directory.
func Here(ctx context.Context, s *Shell, args []string) (string, error) {
	return s.WorkDir.Getwd(), nil
}

// Mdir creates a directory.
func Mdir(ctx context.Context, s *Shell, args []string) (string, error) {
	name := args[1]
	path := s.WorkDir.Resolve(name)
	fs := s.WorkDir.FS()

	if info, err := fs.Stat(path); err == nil {
		if info.IsDir() {
			s.errorf("Error: directory %s already exists", name)
		} else {
			s.errorf("Error: %s already exists as a file", name)
		}
		return "", nil
	}

	if err := fs.Mkdir(path, 0755); err != nil {
		s.log.InvalidInvocation(args, err)
		s.errorf("Error creating directory %s", name)
	}
	return "", nil
}

// Rdir removes a file or an empty directory.
func Rdir(ctx context.Context, s *Shell, args []string) (string, error) {
	name := args[1]
	path := s.WorkDir.Resolve(name)
	fs := s.WorkDir.FS()

	info, err := fs.Stat(path)
	if err != nil {
		s.errorf("Error: Directory or file %s does not exist", name)
		return "", nil
	}

	if info.IsDir() {
		if s.WorkDir.Encloses(path) {
			s.log.InvalidInvocation(args, errRemoveWorkDir)
			s.errorf("Error deleting %s (directory must be empty)", name)
			return "", nil
		}

		// Not every afero.Fs refuses to remove a populated directory.
		if empty, err := afero.IsEmpty(fs, path); err != nil || !empty {
			s.errorf("Error deleting %s (directory must be empty)", name)
			return "", nil
		}
	}

	if err := fs.Remove(path); err != nil {
		s.log.InvalidInvocation(args, err)
		s.errorf("Error deleting %s (directory must be empty)", name)
	}
	return "", nil
}

// ShowHistory lists the commands entered so far.
func ShowHistory(ctx context.Context, s *Shell, args []string) (string, error) {
	return s.History.Render(), nil
}

// Replay runs an earlier history entry again without recording it.
func Replay(ctx context.Context, s *Shell, args []string) (string, error) {
	index := args[1]
	line, err := s.History.Lookup(index)
	switch {
	case errors.Is(err, ErrOutOfBounds):
		// Drop the failed replay itself.
		s.History.RemoveLast()
		fallthrough
	case err != nil:
		s.log.InvalidInvocation(args, err)
		s.errorf("Error: %v", err)
		return "", nil
	}

	s.log.HistoryReplay(index, line)
	return "", s.Dispatch(ctx, Tokenize(line), false)
}

func init() {
	AllBuiltins["exit"] = &Builtin{
		Use:   "exit",
		Short: "Leave the shell.",
		Main:  Exit,
	}
	AllBuiltins["ptime"] = &Builtin{
		Use:    "ptime",
		Short:  "Show the total time spent in child processes.",
		Output: true,
		Main:   Ptime,
	}
	AllBuiltins["list"] = &Builtin{
		Use:    "list",
		Short:  "List the current directory with access, size and modification time.",
		Output: true,
		Main:   List,
	}
	AllBuiltins["cd"] = &Builtin{
		Use:   "cd [DIR]",
		Short: "Change the working directory, home when DIR is omitted.",
		Main:  Cd,
	}
	AllBuiltins["here"] = &Builtin{
		Use:    "here",
		Short:  "Print the working directory.",
		Output: true,
		Main:   Here,
	}
	AllBuiltins["mdir"] = &Builtin{
		Use:      "mdir NAME",
		Short:    "Create a directory.",
		Operands: 1,
		Main:     Mdir,
	}
	AllBuiltins["rdir"] = &Builtin{
		Use:      "rdir NAME",
		Short:    "Remove a file or an empty directory.",
		Operands: 1,
		Main:     Rdir,
	}
	AllBuiltins["history"] = &Builtin{
		Use:    "history",
		Short:  "Show the numbered command history.",
		Output: true,
		Main:   ShowHistory,
	}
	AllBuiltins["^"] = &Builtin{
		Use:      "^ N",
		Short:    "Run history entry N again.",
		Operands: 1,
		Main:     Replay,
	}
}

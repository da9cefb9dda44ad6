// Package shell reads command lines, runs them as built-ins or external
// programs and keeps the session's history.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/josephlewis42/tinysh/core/logger"
	"github.com/josephlewis42/tinysh/core/proc"
	"github.com/josephlewis42/tinysh/core/vos"
)

// DefaultPrompt shows the working directory in brackets.
const DefaultPrompt = `[\w]: `

// ProcessRunner starts external programs and totals the time they take.
type ProcessRunner interface {
	Run(ctx context.Context, req proc.Request) (*proc.Result, error)
	Total() time.Duration
}

var _ ProcessRunner = (*proc.Runner)(nil)

// Options configure a Shell. Only WorkDir is required.
type Options struct {
	WorkDir *vos.WorkDir
	IO      vos.VIO
	Runner  ProcessRunner
	Log     *logger.SessionLogger

	// Location is used for times shown by list, local time if nil.
	Location *time.Location
	// Prompt is the prompt template, DefaultPrompt if empty.
	Prompt string
	// Color is one of ColorModes, auto if empty.
	Color string
	// Environ is passed on to programs, the shell's own if nil.
	Environ []string

	User     string
	Hostname string
	Root     bool
}

// Shell is one interactive session.
type Shell struct {
	WorkDir *vos.WorkDir
	History *History

	io       vos.VIO
	env      *vos.MapEnv
	runner   ProcessRunner
	log      *logger.SessionLogger
	location *time.Location
	prompt   string
	color    *ColorPrinter

	user     string
	hostname string
	root     bool

	// notify derives the context a single command line runs under.
	notify func(context.Context) (context.Context, context.CancelFunc)
}

// NewShell creates a session from opts.
func NewShell(opts Options) (*Shell, error) {
	if opts.WorkDir == nil {
		return nil, errors.New("shell: no working directory")
	}

	s := &Shell{
		WorkDir:  opts.WorkDir,
		History:  &History{},
		io:       opts.IO,
		runner:   opts.Runner,
		log:      opts.Log,
		location: opts.Location,
		prompt:   opts.Prompt,
		user:     opts.User,
		hostname: opts.Hostname,
		root:     opts.Root,
		notify: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}

	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}
	s.env = vos.NewMapEnvFromEnvList(opts.Environ)

	if s.io == nil {
		s.io = vos.NewOsStreams()
	}
	if s.runner == nil {
		s.runner = proc.NewRunner(nil)
	}
	if s.log == nil {
		s.log = logger.Nop().NewSession()
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}
	s.color = NewColorPrinter(opts.Color, s.io.Stdout())

	return s, nil
}

// Prompt renders the prompt template:
//
//	\w  working directory
//	\W  base name of the working directory
//	\u  user name
//	\h  host name
//	\$  # for root, $ for everyone else
func (s *Shell) Prompt() string {
	pwd := s.WorkDir.Getwd()

	prompt := s.prompt
	prompt = strings.ReplaceAll(prompt, `\u`, s.color.Sprint(ColorBoldGreen, s.user))
	prompt = strings.ReplaceAll(prompt, `\h`, s.color.Sprint(ColorBoldGreen, s.hostname))
	prompt = strings.ReplaceAll(prompt, `\w`, s.color.Sprint(ColorBoldBlue, pwd))
	prompt = strings.ReplaceAll(prompt, `\W`, s.color.Sprint(ColorBoldBlue, filepath.Base(pwd)))

	if s.root {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run prompts for and runs lines until exit or the end of input. A final
// line without a newline is still run.
func (s *Shell) Run(ctx context.Context) error {
	s.log.SessionStart(s.WorkDir.Getwd(), s.WorkDir.HomeDir())
	defer func() {
		s.log.SessionEnd(s.runner.Total())
	}()

	reader := bufio.NewReader(s.io.Stdin())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.io.Stdout(), s.Prompt())
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}

		if err := s.RunCommand(ctx, line); errors.Is(err, ErrExit) || readErr == io.EOF {
			break
		}
	}

	// Leave the terminal on a fresh line.
	fmt.Fprintln(s.io.Stdout())
	return nil
}

// RunCommand tokenizes and runs one line, recording it in the history.
// Only ErrExit is returned.
func (s *Shell) RunCommand(ctx context.Context, line string) error {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil
	}

	ctx, stop := s.notify(ctx)
	defer stop()

	return s.Dispatch(ctx, tokens, true)
}

// Dispatch runs a tokenized command line, split into two stages at the first
// "|". Problems are reported to the user; the only error returned is ErrExit.
func (s *Shell) Dispatch(ctx context.Context, cmd []string, recordHistory bool) error {
	if recordHistory {
		s.History.Append(Join(cmd))
	}

	left, right, isPipe := splitPipe(cmd)
	if !isPipe {
		_, err := s.execute(ctx, cmd, stageAlone, "")
		return err
	}

	if len(left) == 0 || len(right) == 0 {
		s.errorf("Error: missing command in pipe")
		return nil
	}

	out, err := s.execute(ctx, left, stagePipeSource, "")
	if err != nil {
		return err
	}

	// An interrupt ends the whole line.
	if ctx.Err() != nil {
		return nil
	}

	_, err = s.execute(ctx, right, stagePipeSink, out)
	return err
}

type stage int

const (
	stageAlone stage = iota
	// stagePipeSource is the left of a pipe, its output is captured.
	stagePipeSource
	// stagePipeSink is the right of a pipe, it's fed the captured output.
	stagePipeSink
)

func splitPipe(cmd []string) (left, right []string, ok bool) {
	for i, tok := range cmd {
		if tok == "|" {
			return cmd[:i], cmd[i+1:], true
		}
	}
	return cmd, nil, false
}

// execute runs a single stage and returns the text it produced for a pipe.
func (s *Shell) execute(ctx context.Context, cmd []string, st stage, input string) (string, error) {
	builtin, ok := AllBuiltins[cmd[0]]
	if !ok {
		return s.executeProgram(ctx, cmd, st, input), nil
	}

	s.log.RunCommand(cmd, true)

	if len(cmd)-1 < builtin.Operands {
		s.log.InvalidInvocation(cmd, ErrMissingOperand)
		s.errorf("%s: %v", cmd[0], ErrMissingOperand)
		return "", nil
	}

	out, err := builtin.Main(ctx, s, cmd)
	if err != nil {
		return "", err
	}

	if builtin.Output && st != stagePipeSource {
		fmt.Fprintln(s.io.Stdout(), out)
	}
	return out, nil
}

func (s *Shell) executeProgram(ctx context.Context, cmd []string, st stage, input string) string {
	s.log.RunCommand(cmd, false)

	dir := s.WorkDir.Getwd()
	result, err := s.runner.Run(ctx, proc.Request{
		Argv:       cmd,
		Dir:        dir,
		Env:        s.env.ChildEnviron(dir),
		Stdin:      s.io.Stdin(),
		Stdout:     s.io.Stdout(),
		Stderr:     s.io.Stderr(),
		PipeSource: st == stagePipeSource,
		PipeSink:   st == stagePipeSink,
		PipeInput:  input,
	})

	switch {
	case errors.Is(err, proc.ErrInterrupted):
		s.log.Interrupted(cmd)
		s.errorf("Command forcefully exited")
		return ""

	case err != nil:
		s.log.UnknownCommand(cmd, err)
		s.errorf("Invalid command: %s", Join(cmd))
		return ""
	}

	s.log.ProcessExited(cmd, result.ExitCode, result.Elapsed)
	return result.Output
}

// errorf prints a diagnostic line to stdout.
func (s *Shell) errorf(format string, a ...interface{}) {
	fmt.Fprintln(s.io.Stdout(), s.color.Sprint(ColorBoldRed, fmt.Sprintf(format, a...)))
}

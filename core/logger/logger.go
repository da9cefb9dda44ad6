package logger

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event names, stored in the "event" field of every entry.
const (
	EventSessionStart      = "session_start"
	EventSessionEnd        = "session_end"
	EventRunCommand        = "run_command"
	EventProcessExited     = "process_exited"
	EventUnknownCommand    = "unknown_command"
	EventInvalidInvocation = "invalid_invocation"
	EventInterrupted       = "interrupted"
	EventHistoryReplay     = "history_replay"
)

// Logger writes interaction events for later reporting.
type Logger struct {
	base zerolog.Logger
}

// NewJSONLinesLogger creates a Logger that exports events in newline
// delimited JSON object format.
func NewJSONLinesLogger(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// Nop creates a Logger that drops everything.
func Nop() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// NewSession creates a logger with an attached random session ID.
func (l *Logger) NewSession() *SessionLogger {
	id := uuid.NewString()
	return &SessionLogger{
		log:       l.base.With().Str("session_id", id).Logger(),
		sessionID: id,
	}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	log       zerolog.Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (s *SessionLogger) SessionID() string {
	return s.sessionID
}

func (s *SessionLogger) SessionStart(dir, home string) {
	s.log.Info().
		Str("event", EventSessionStart).
		Str("dir", dir).
		Str("home", home).
		Msg("session started")
}

func (s *SessionLogger) SessionEnd(childTime time.Duration) {
	s.log.Info().
		Str("event", EventSessionEnd).
		Float64("elapsed_seconds", childTime.Seconds()).
		Msg("session ended")
}

// RunCommand records a command about to run.
func (s *SessionLogger) RunCommand(argv []string, builtin bool) {
	s.log.Info().
		Str("event", EventRunCommand).
		Strs("command", argv).
		Bool("builtin", builtin).
		Msg("run command")
}

// ProcessExited records a child process that ran to completion.
func (s *SessionLogger) ProcessExited(argv []string, exitCode int, elapsed time.Duration) {
	s.log.Info().
		Str("event", EventProcessExited).
		Strs("command", argv).
		Int("exit_code", exitCode).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("process exited")
}

// UnknownCommand records a program that couldn't be started.
func (s *SessionLogger) UnknownCommand(argv []string, err error) {
	s.log.Warn().
		Str("event", EventUnknownCommand).
		Strs("command", argv).
		Err(err).
		Msg("unknown command")
}

// InvalidInvocation records a built-in called with bad operands.
func (s *SessionLogger) InvalidInvocation(argv []string, err error) {
	s.log.Warn().
		Str("event", EventInvalidInvocation).
		Strs("command", argv).
		Err(err).
		Msg("invalid invocation")
}

// Interrupted records a child whose wait was cut short.
func (s *SessionLogger) Interrupted(argv []string) {
	s.log.Warn().
		Str("event", EventInterrupted).
		Strs("command", argv).
		Msg("command interrupted")
}

// HistoryReplay records a history entry being run again.
func (s *SessionLogger) HistoryReplay(index, line string) {
	s.log.Info().
		Str("event", EventHistoryReplay).
		Str("index", index).
		Str("line", line).
		Msg("history replay")
}

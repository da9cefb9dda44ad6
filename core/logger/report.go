package logger

import (
	"encoding/json"
	"io"
	"sort"
)

// LogEntry is one decoded event from a JSON lines log.
type LogEntry struct {
	Level          string   `json:"level"`
	Time           string   `json:"time"`
	Message        string   `json:"message"`
	SessionID      string   `json:"session_id"`
	Event          string   `json:"event"`
	Command        []string `json:"command,omitempty"`
	Builtin        bool     `json:"builtin,omitempty"`
	ExitCode       int      `json:"exit_code,omitempty"`
	ElapsedSeconds float64  `json:"elapsed_seconds,omitempty"`
	Index          string   `json:"index,omitempty"`
	Line           string   `json:"line,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		InvalidInvocation: InvalidInvocationReport{
			Invocations: NewPathCounter("command", "error"),
		},
		sessions: make(map[string]bool),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	Process           ProcessReport           `json:"process_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	HistoryReplay     HistoryReplayReport     `json:"history_replay_report"`

	sessions map[string]bool
}

// Update adds a single entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	if r.sessions == nil {
		r.sessions = make(map[string]bool)
	}
	if r.InvalidInvocation.Invocations == nil {
		r.InvalidInvocation.Invocations = NewPathCounter("command", "error")
	}

	if le.SessionID != "" && !r.sessions[le.SessionID] {
		r.sessions[le.SessionID] = true
		r.Sessions++
	}

	switch le.Event {
	case EventRunCommand:
		r.RunCommand.update(le)
	case EventProcessExited:
		r.Process.update(le)
	case EventInterrupted:
		r.Process.Interrupted++
	case EventUnknownCommand:
		r.UnknownCommand.update(le)
	case EventInvalidInvocation:
		r.InvalidInvocation.update(le)
	case EventHistoryReplay:
		r.HistoryReplay.Count++
	case EventSessionStart, EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(le.Event)
	}
}

type RunCommandReport struct {
	// Name of the command and how many times it ran.
	CommandNames StrCounter `json:"command_names"`
	// Number of built-in and external commands.
	Kinds StrCounter `json:"kinds"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	if len(le.Command) > 0 {
		r.CommandNames.Increment(le.Command[0])
	}
	if le.Builtin {
		r.Kinds.Increment("builtin")
	} else {
		r.Kinds.Increment("external")
	}
}

type ProcessReport struct {
	Count        int        `json:"count"`
	Interrupted  int        `json:"interrupted"`
	TotalSeconds float64    `json:"total_seconds"`
	ExitCodes    IntCounter `json:"exit_codes"`
}

func (r *ProcessReport) update(le *LogEntry) {
	r.Count++
	r.TotalSeconds += le.ElapsedSeconds
	r.ExitCodes.Increment(le.ExitCode)
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	if len(le.Command) > 0 {
		r.CommandNames.Increment(le.Command[0])
	}
}

type InvalidInvocationReport struct {
	Invocations *PathCounter `json:"invocations"`
}

func (r *InvalidInvocationReport) update(le *LogEntry) {
	name := ""
	if len(le.Command) > 0 {
		name = le.Command[0]
	}
	r.Invocations.Increment(name, le.Error)
}

type HistoryReplayReport struct {
	Count int `json:"count"`
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

// IntCounter counts the number of integers seen.
type IntCounter struct {
	internal map[int]int
}

// Increment adds one to the given key.
func (c *IntCounter) Increment(toAdd int) {
	if c.internal == nil {
		c.internal = make(map[int]int)
	}

	c.internal[toAdd]++
}

// Get returns the count for key.
func (c *IntCounter) Get(key int) int {
	return c.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (c IntCounter) MarshalJSON() ([]byte, error) {
	if c.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings, one value per column.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given tuple.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for a tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler, most common tuples first.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

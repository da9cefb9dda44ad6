package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const historyHeader = "-- Command History --"

var (
	// ErrNotInteger is returned when a history index isn't a number.
	ErrNotInteger = errors.New("is not int")

	// ErrOutOfBounds is returned when a history index doesn't name an earlier
	// entry.
	ErrOutOfBounds = errors.New("outside of history bounds")
)

// History is the append-only record of command lines entered in a session.
// Entries are numbered from 1.
type History struct {
	entries []string
}

// Append records a command line.
func (h *History) Append(line string) {
	h.entries = append(h.entries, line)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// RemoveLast drops the newest entry.
func (h *History) RemoveLast() {
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
}

// Render lists the entries under a header, one "<n> : <line>" per line.
func (h *History) Render() string {
	var sb strings.Builder
	sb.WriteString(historyHeader)
	sb.WriteString("\n")

	for i, line := range h.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d : %s", i+1, line)
	}

	return sb.String()
}

// Lookup returns the entry named by indexText. The newest entry is the
// replay command itself and is out of bounds.
func (h *History) Lookup(indexText string) (string, error) {
	index, err := strconv.Atoi(indexText)
	if err != nil {
		return "", fmt.Errorf("%s %w", indexText, ErrNotInteger)
	}

	if index == len(h.entries) || index < 1 || index > len(h.entries) {
		return "", fmt.Errorf("%s %w", indexText, ErrOutOfBounds)
	}

	return h.entries[index-1], nil
}

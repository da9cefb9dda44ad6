package vos

import (
	"io"
	"os"
)

// VIO is the set of standard streams a shell reads and writes.
type VIO interface {
	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer
}

// Streams is a VIO backed by plain readers and writers.
//
// Child processes that inherit a Streams receive the underlying *os.File
// when one is set, so they talk to the terminal directly.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

var _ VIO = (*Streams)(nil)

// NewStreams builds a VIO, nil arguments read as end of input and
// discard writes.
func NewStreams(stdin io.Reader, stdout, stderr io.Writer) *Streams {
	if stdin == nil {
		stdin = eofReader{}
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	return &Streams{In: stdin, Out: stdout, Err: stderr}
}

// NewOsStreams connects to the process's own standard streams.
func NewOsStreams() *Streams {
	return NewStreams(os.Stdin, os.Stdout, os.Stderr)
}

// NewNullIO creates a /dev/null style VIO.
func NewNullIO() VIO {
	return NewStreams(nil, nil, nil)
}

func (s *Streams) Stdin() io.Reader {
	return s.In
}

func (s *Streams) Stdout() io.Writer {
	return s.Out
}

func (s *Streams) Stderr() io.Writer {
	return s.Err
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}

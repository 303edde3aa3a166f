package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and prefixes every complete line written
// through it. Partial lines are buffered until their newline arrives.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer. Data is buffered until a newline is seen,
// then each full line is written with the prefix prepended.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.pending.Write(p)

	for {
		buffered := pw.pending.Bytes()
		i := bytes.IndexByte(buffered, '\n')
		if i < 0 {
			return len(p), nil
		}

		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(buffered[:i+1]); err != nil {
			return 0, err
		}
		pw.pending.Next(i + 1)
	}
}

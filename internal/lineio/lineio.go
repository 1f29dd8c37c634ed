// Package lineio provides a buffered, line-oriented reader shared by the
// FASTA and VCF parsers.
package lineio

import (
	"bufio"
	"bytes"
	"io"
)

// DefaultBufferSize is the read buffer size used by New.
const DefaultBufferSize = 1 << 20 // 1MB buffer

// Reader reads newline-terminated lines from an input stream.
type Reader struct {
	reader *bufio.Reader
	line   []byte // reusable buffer for reading lines
	n      int    // number of lines returned so far
}

// New creates a new line reader.
func New(r io.Reader) *Reader {
	return NewSize(r, DefaultBufferSize)
}

// NewSize creates a new line reader with the given buffer size.
func NewSize(r io.Reader, size int) *Reader {
	return &Reader{
		reader: bufio.NewReaderSize(r, size),
		line:   make([]byte, 0, 512),
	}
}

// Next reads the next line, stripping the newline and any trailing CR.
// The returned slice is only valid until the following call.
// Returns io.EOF when no more lines are available.
func (r *Reader) Next() ([]byte, error) {
	r.line = r.line[:0]

	for {
		segment, isPrefix, err := r.reader.ReadLine()
		if err != nil {
			return nil, err
		}

		r.line = append(r.line, segment...)

		if !isPrefix {
			break
		}
	}

	// Trim any trailing CR (for Windows line endings)
	r.line = bytes.TrimSuffix(r.line, []byte{'\r'})
	r.n++

	return r.line, nil
}

// ReadLine is like Next but returns a copy of the line as a string.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.Next()
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// Line returns the 1-based number of the most recently returned line,
// or 0 before the first call to Next.
func (r *Reader) Line() int {
	return r.n
}

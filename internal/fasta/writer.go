package fasta

import (
	"bufio"
	"io"

	"github.com/vertti/biokit/internal/seq"
)

// DefaultWidth is the line width sequences are wrapped at.
const DefaultWidth = 70

// Writer writes records in FASTA format.
type Writer struct {
	// Width is the number of residues per sequence line. If <= 0, each
	// sequence is written on a single line.
	Width int

	buf *bufio.Writer
}

// NewWriter creates a new FASTA writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Width: DefaultWidth,
		buf:   bufio.NewWriterSize(w, 1<<16),
	}
}

// Write writes one record. Call Flush to push buffered data to the
// underlying writer.
func (w *Writer) Write(rec seq.Record) error {
	w.buf.WriteByte('>')
	w.buf.WriteString(rec.Header())
	w.buf.WriteByte('\n')

	data := rec.Seq.Data
	width := w.Width
	if width <= 0 {
		width = len(data)
	}
	for start := 0; start < len(data); start += width {
		end := min(start+width, len(data))
		w.buf.WriteString(data[start:end])
		if err := w.buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(recs []seq.Record) error {
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Package fasta reads and writes FASTA files as streams of seq.Record.
package fasta

import (
	"io"
	"iter"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/vertti/biokit/internal/lineio"
	"github.com/vertti/biokit/internal/seq"
)

type state uint8

const (
	beforeFirstHeader state = iota
	inRecord
)

// Reader reads records from FASTA input. At most one record is buffered.
type Reader struct {
	// Kind is assigned to every Seq the reader produces. Defaults to DNA.
	// It may be changed between calls to Next.
	Kind seq.Kind

	lines *lineio.Reader
	state state
	title string
	desc  string
	body  strings.Builder
	err   error // sticky
}

// NewReader creates a new FASTA reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		Kind:  seq.DNA,
		lines: lineio.New(r),
	}
}

// Next returns the next record.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (seq.Record, error) {
	if r.err != nil {
		return seq.Record{}, r.err
	}

	for {
		line, err := r.lines.Next()
		if errors.Is(err, io.EOF) {
			r.err = io.EOF
			if r.state == inRecord {
				return r.flush(), nil
			}
			return seq.Record{}, io.EOF
		}
		if err != nil {
			r.err = errors.Wrap(err, "reading FASTA")
			return seq.Record{}, r.err
		}

		if len(line) > 0 && line[0] == '>' {
			title, desc := parseHeader(string(line[1:]))
			if r.state == inRecord {
				rec := r.flush()
				r.title, r.desc = title, desc
				return rec, nil
			}
			r.title, r.desc = title, desc
			r.state = inRecord
			continue
		}

		body := strings.TrimRightFunc(string(line), unicode.IsSpace)
		if r.state == beforeFirstHeader {
			if strings.TrimSpace(body) == "" {
				continue
			}
			r.err = &ParseError{Line: r.lines.Line(), Msg: "sequence data before first header"}
			return seq.Record{}, r.err
		}
		r.body.WriteString(body)
	}
}

// All returns an iterator over the remaining records. Iteration stops after
// the first error, which is yielded.
func (r *Reader) All() iter.Seq2[seq.Record, error] {
	return func(yield func(seq.Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// flush emits the record being accumulated and clears the buffer.
func (r *Reader) flush() seq.Record {
	rec := seq.NewRecord(r.title, r.desc, seq.New(r.Kind, r.body.String()))
	r.body.Reset()
	return rec
}

// parseHeader splits header text (without '>') into the title token and the
// remaining words joined by single spaces.
func parseHeader(s string) (title, desc string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([]seq.Record, error) {
	var recs []seq.Record
	for rec, err := range NewReader(r).All() {
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ReadMap reads every record from r into a map keyed by title. A repeated
// title fails with *DuplicateKeyError as soon as it is seen.
func ReadMap(r io.Reader) (map[string]seq.Record, error) {
	m := make(map[string]seq.Record)
	for rec, err := range NewReader(r).All() {
		if err != nil {
			return nil, err
		}
		if _, dup := m[rec.Title]; dup {
			return nil, &DuplicateKeyError{Title: rec.Title}
		}
		m[rec.Title] = rec
	}
	return m, nil
}

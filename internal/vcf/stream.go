// Package vcf reads and writes Variant Call Format files. A Stream tracks
// the active column header line by line; data lines become Records.
package vcf

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/vertti/biokit/internal/compress"
	"github.com/vertti/biokit/internal/format"
	"github.com/vertti/biokit/internal/lineio"
)

// Mode selects whether a Stream is opened for reading or writing.
type Mode uint8

// Open modes.
const (
	Read Mode = iota + 1
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "r"
	case Write:
		return "w"
	default:
		return "unknown"
	}
}

// ParseMode converts "r" or "w" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "r":
		return Read, nil
	case "w":
		return Write, nil
	}
	return 0, &ConfigError{Reason: "unsupported open mode " + strconv.Quote(s)}
}

// DefaultHeader is the column header assumed until a "#" line is seen.
var DefaultHeader = []string{
	ColChrom, ColPos, ColID, ColRef, ColAlt,
	ColQual, ColFilter, ColInfo, ColFormat, "SAMPLE",
}

// Stream is a line-oriented handle on a .vcf or .vcf.gz file. It is not
// safe for concurrent use; open a separate Stream per goroutine.
type Stream struct {
	path   string
	codec  compress.Codec
	header []string
	mode   Mode // 0 while closed

	rc    io.ReadCloser
	lines *lineio.Reader

	wc io.WriteCloser
	bw *bufio.Writer
}

// New validates path and returns a closed Stream. The extension decides the
// codec: ".vcf" is plain text, ".gz" is gzip. Anything else fails with
// *ConfigError before the file is touched.
func New(path string) (*Stream, error) {
	c, err := format.VCFCodec(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "only .vcf or .vcf.gz files are supported", Err: err}
	}
	return &Stream{
		path:   path,
		codec:  c,
		header: append([]string(nil), DefaultHeader...),
	}, nil
}

// Path returns the file path the stream was created for.
func (s *Stream) Path() string { return s.path }

// Compressed reports whether the stream goes through gzip.
func (s *Stream) Compressed() bool { return s.codec == compress.Gzip }

// Mode returns the open mode, or 0 when closed.
func (s *Stream) Mode() Mode { return s.mode }

// Header returns a copy of the active column header.
func (s *Stream) Header() []string {
	return append([]string(nil), s.header...)
}

// Samples returns the sample names of the active header.
func (s *Stream) Samples() []string {
	return append([]string(nil), sampleNames(s.header)...)
}

// Open opens the underlying file. Only Read and Write are accepted.
func (s *Stream) Open(mode Mode) error {
	if s.mode != 0 {
		return errors.Errorf("vcf %s: already open for %s", s.path, s.mode)
	}

	switch mode {
	case Read:
		rc, err := compress.Open(s.path, s.codec)
		if err != nil {
			return err
		}
		s.rc = rc
		s.lines = lineio.New(rc)
	case Write:
		wc, err := compress.Create(s.path, s.codec)
		if err != nil {
			return err
		}
		s.wc = wc
		s.bw = bufio.NewWriterSize(wc, 1<<16)
	default:
		return &ConfigError{Path: s.path, Reason: "unsupported open mode " + strconv.Itoa(int(mode))}
	}
	s.mode = mode
	return nil
}

// Close flushes pending output and releases the file. Closing a closed
// Stream is a no-op.
func (s *Stream) Close() error {
	var err error
	switch s.mode {
	case Read:
		err = s.rc.Close()
		s.rc, s.lines = nil, nil
	case Write:
		err = s.bw.Flush()
		if cerr := s.wc.Close(); err == nil {
			err = cerr
		}
		s.wc, s.bw = nil, nil
	}
	s.mode = 0
	return errors.Wrapf(err, "closing %s", s.path)
}

// Line returns the number of physical lines read so far.
func (s *Stream) Line() int {
	if s.lines == nil {
		return 0
	}
	return s.lines.Line()
}

// ReadLine returns the next line without its newline, or ("", io.EOF) at
// the end of the stream. A "#" column header line replaces the active
// header. With skipMeta, "##" lines and column header lines are consumed
// silently and the next data line is returned instead.
func (s *Stream) ReadLine(skipMeta bool) (string, error) {
	if s.mode != Read {
		return "", ErrNotOpen
	}

	for {
		line, err := s.next()
		if err != nil {
			return "", err
		}
		if isColumnHeader(line) {
			s.setHeader(line)
		}
		if !skipMeta || !strings.HasPrefix(line, "#") {
			return line, nil
		}
	}
}

func (s *Stream) next() (string, error) {
	line, err := s.lines.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		err = errors.Wrapf(err, "reading %s", s.path)
	}
	return line, err
}

func isColumnHeader(line string) bool {
	return strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##")
}

func (s *Stream) setHeader(line string) {
	s.header = strings.Split(strings.TrimPrefix(line, "#"), "\t")
}

// Write writes one line, adding a newline if missing. Meta lines are always
// written and a column header line also becomes the active header. A data
// line whose column count differs from the active header is dropped with a
// warning; Write then reports false and a nil error.
func (s *Stream) Write(line string) (bool, error) {
	if s.mode != Write {
		return false, ErrNotOpen
	}

	body := strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(body, "##"):
	case strings.HasPrefix(body, "#"):
		s.setHeader(body)
	default:
		if n := strings.Count(body, "\t") + 1; n != len(s.header) {
			log.WithFields(log.Fields{
				"path":     s.path,
				"columns":  n,
				"expected": len(s.header),
			}).Warn("dropping data line: column count does not match header")
			return false, nil
		}
	}

	s.bw.WriteString(body)
	if err := s.bw.WriteByte('\n'); err != nil {
		return false, errors.Wrapf(err, "writing %s", s.path)
	}
	return true, nil
}

// Records iterates over the remaining data lines as parsed Records. A parse
// failure is yielded once, carrying the line number, and ends the iteration.
// Breaking out early leaves the stream open.
func (s *Stream) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			line, err := s.ReadLine(true)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			rec, err := ParseLine(line, s.header)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Line = s.Line()
				}
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// HeaderLines yields the leading "#" lines of the file. It reads through a
// second, independent handle so the receiver's position is untouched.
func (s *Stream) HeaderLines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := WithStream(s.path, Read, func(other *Stream) error {
			for {
				line, err := other.ReadLine(false)
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if !strings.HasPrefix(line, "#") || !yield(line, nil) {
					return nil
				}
			}
		})
		if err != nil {
			yield("", err)
		}
	}
}

// MetaInfo parses the leading "##" block through a second, independent
// handle so the receiver's position is untouched.
func (s *Stream) MetaInfo() (MetaInfo, error) {
	info := make(MetaInfo)
	err := WithStream(s.path, Read, func(other *Stream) error {
		for {
			line, err := other.ReadLine(false)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if !strings.HasPrefix(line, "##") {
				return nil
			}

			m, err := ParseMetaLine(line)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Line = other.Line()
				}
				return err
			}
			info.Add(m)
		}
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// WithStream opens path in mode, runs fn and closes the stream on every
// exit path. A Close error is returned only when fn succeeded.
func WithStream(path string, mode Mode, fn func(*Stream) error) (err error) {
	s, err := New(path)
	if err != nil {
		return err
	}
	if err := s.Open(mode); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

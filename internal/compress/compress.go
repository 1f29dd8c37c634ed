// Package compress provides the codec layer underneath the line-oriented
// FASTA and VCF streams: plain text, gzip and zstd with the same
// io.ReadCloser / io.WriteCloser interface.
package compress

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec selects the compression applied to a stream.
type Codec uint8

// Supported codecs.
const (
	None Codec = iota // plain text
	Gzip              // RFC 1952, also covers BGZF-compressed VCF
	Zstd              // Zstandard frames
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// NewReader wraps r so that reads return decompressed bytes.
// Closing the returned reader does not close r.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "creating gzip reader")
		}
		return gz, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd decoder")
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, errors.Errorf("unsupported codec %d", c)
	}
}

// NewWriter wraps w so that written bytes are compressed.
// Close must be called to flush the codec; it does not close w.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, errors.Wrap(err, "creating zstd encoder")
		}
		return enc, nil
	default:
		return nil, errors.Errorf("unsupported codec %d", c)
	}
}

// Open opens the file at path for reading through codec c.
// Closing the result closes both the codec and the file.
func Open(path string, c Codec) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // caller-specified input file
	if err != nil {
		return nil, errors.Wrap(err, "cannot open input")
	}
	r, err := NewReader(f, c)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// Create creates (or truncates) the file at path for writing through codec c.
// Closing the result flushes the codec and closes the file.
func Create(path string, c Codec) (io.WriteCloser, error) {
	f, err := os.Create(path) //nolint:gosec // caller-specified output file
	if err != nil {
		return nil, errors.Wrap(err, "cannot create output")
	}
	w, err := NewWriter(f, c)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &writeCloser{Writer: w, closers: []io.Closer{w, f}}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	return closeAll(r.closers)
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	return closeAll(w.closers)
}

// closeAll closes every closer in order and returns the first error.
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

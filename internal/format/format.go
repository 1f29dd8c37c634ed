// Package format decides how biological text files are encoded on disk:
// extension rules for VCF, and magic-byte sniffing for everything else.
package format

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vertti/biokit/internal/compress"
)

// Magic bytes identifying compressed inputs.
var (
	GzipMagic = []byte{0x1f, 0x8b}
	ZstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Recognised VCF file extensions.
const (
	ExtVCF  = "vcf"
	ExtGzip = "gz"
)

// ExtensionError reports a path whose extension is not a supported VCF encoding.
type ExtensionError struct {
	Path string
	Ext  string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension %q for %s: only .vcf or .vcf.gz", e.Ext, e.Path)
}

// VCFCodec maps a VCF path to its codec using only the last extension:
// ".vcf" is plain text, ".gz" is gzip, anything else is rejected.
func VCFCodec(path string) (compress.Codec, error) {
	ext := extension(path)
	switch ext {
	case ExtVCF:
		return compress.None, nil
	case ExtGzip:
		return compress.Gzip, nil
	default:
		return compress.None, &ExtensionError{Path: path, Ext: ext}
	}
}

// CodecFor guesses a codec from the file extension, defaulting to plain text.
func CodecFor(path string) compress.Codec {
	switch extension(path) {
	case "gz", "bgz":
		return compress.Gzip
	case "zst":
		return compress.Zstd
	default:
		return compress.None
	}
}

// Sniff peeks at the first bytes of br and reports the codec they indicate.
// Nothing is consumed from br.
func Sniff(br *bufio.Reader) (compress.Codec, error) {
	header, err := br.Peek(len(ZstdMagic))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return compress.None, errors.Wrap(err, "cannot inspect input")
	}
	switch {
	case bytes.HasPrefix(header, GzipMagic):
		return compress.Gzip, nil
	case bytes.HasPrefix(header, ZstdMagic):
		return compress.Zstd, nil
	default:
		return compress.None, nil
	}
}

// OpenAny opens path for reading, decompressing it when either the extension
// or the leading magic bytes say it is compressed. A path of "" or "-" reads
// stdin.
func OpenAny(path string) (io.ReadCloser, error) {
	var in io.Reader = os.Stdin
	closeInput := func() error { return nil }
	if path != "" && path != "-" {
		f, err := os.Open(path) //nolint:gosec // caller-specified input file
		if err != nil {
			return nil, errors.Wrap(err, "cannot open input")
		}
		in = f
		closeInput = f.Close
	}

	br := bufio.NewReaderSize(in, 1<<20)
	c, err := Sniff(br)
	if err != nil {
		_ = closeInput()
		return nil, err
	}
	if c == compress.None {
		c = CodecFor(path)
	}

	r, err := compress.NewReader(br, c)
	if err != nil {
		_ = closeInput()
		return nil, errors.Wrapf(err, "cannot open %s input", c)
	}
	return &sniffedReader{Reader: r, codec: r, input: closeInput}, nil
}

type sniffedReader struct {
	io.Reader
	codec io.Closer
	input func() error
}

func (s *sniffedReader) Close() error {
	err := s.codec.Close()
	if cerr := s.input(); err == nil {
		err = cerr
	}
	return err
}

func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

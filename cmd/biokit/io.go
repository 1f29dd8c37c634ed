package main

import (
	"io"
	"iter"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vertti/biokit/internal/compress"
	"github.com/vertti/biokit/internal/fasta"
	"github.com/vertti/biokit/internal/format"
	"github.com/vertti/biokit/internal/seq"
)

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// openInput opens path for reading, or stdin for "" and "-". Gzip and zstd
// input is detected from its magic bytes.
func openInput(path string) (io.ReadCloser, error) {
	return format.OpenAny(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openOutput creates path, compressing by extension, or returns stdout for
// "" and "-".
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	return compress.Create(path, format.CodecFor(path))
}

// readFasta yields the records of path, closing it when iteration ends.
func readFasta(path string, k seq.Kind) iter.Seq2[seq.Record, error] {
	return func(yield func(seq.Record, error) bool) {
		in, err := openInput(path)
		if err != nil {
			yield(seq.Record{}, err)
			return
		}
		defer in.Close() //nolint:errcheck // read-only

		r := fasta.NewReader(in)
		r.Kind = k
		for rec, err := range r.All() {
			if !yield(rec, err) {
				return
			}
		}
	}
}

// writeFasta writes every record produced by recs to path.
func writeFasta(path string, stdout io.Writer, width int, recs iter.Seq2[seq.Record, error]) (err error) {
	out, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = errors.Wrap(cerr, "closing output")
		}
	}()

	w := fasta.NewWriter(out)
	w.Width = width
	for rec, err := range recs {
		if err != nil {
			return err
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrap(err, "writing FASTA")
		}
	}
	return w.Flush()
}

// inputArg returns the first positional argument, or "" for stdin.
func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

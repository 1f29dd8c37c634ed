package main

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vertti/biokit/internal/codec"
	"github.com/vertti/biokit/internal/seq"
)

// seqOpts are the flags shared by the seq subcommands.
type seqOpts struct {
	kind   string
	output string
}

func newSeqCmd(a *app) *cobra.Command {
	var opts seqOpts
	cmd := &cobra.Command{
		Use:   "seq",
		Short: "Sequence algebra over the records of a FASTA file",
	}
	cmd.PersistentFlags().StringVar(&opts.kind, "kind", "dna", "input sequence kind: dna, rna or protein")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	var start, frame int
	transcribe := mapCmd(a, &opts, "transcribe [input]", "Transcribe DNA to RNA (template strand, read 5' to 3')",
		func(s seq.Seq) (seq.Seq, error) { return s.Transcribe(start) })
	transcribe.Flags().IntVar(&start, "start", 0, "0-based index to start from")

	var rtStart int
	reverseTranscribe := mapCmd(a, &opts, "reverse-transcribe [input]", "Reverse transcribe RNA to DNA",
		func(s seq.Seq) (seq.Seq, error) { return s.ReverseTranscribe(rtStart) })
	reverseTranscribe.Flags().IntVar(&rtStart, "start", 0, "0-based index to start from")

	translate := mapCmd(a, &opts, "translate [input]", "Translate RNA to protein from the first AUG or a given frame",
		func(s seq.Seq) (seq.Seq, error) {
			if frame != 0 {
				return s.TranslateFrame(frame)
			}
			return s.Translate()
		})
	translate.Flags().IntVar(&frame, "frame", 0, "signed frame as printed by orf (0: first AUG)")

	cmd.AddCommand(
		mapCmd(a, &opts, "complement [input]", "Complement each record",
			func(s seq.Seq) (seq.Seq, error) { return s.Complement(), nil }),
		mapCmd(a, &opts, "revcomp [input]", "Reverse complement each record",
			func(s seq.Seq) (seq.Seq, error) { return s.ReverseComplement(), nil }),
		transcribe,
		reverseTranscribe,
		translate,
		newORFCmd(&opts),
	)
	return cmd
}

// mapCmd builds a subcommand writing fn applied to every record. Records
// with no result (no ORF, bad base in the window) are skipped with a
// warning; a kind mismatch stops the command.
func mapCmd(a *app, opts *seqOpts, use, short string, fn func(seq.Seq) (seq.Seq, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(opts.kind)
			if err != nil {
				return err
			}
			mapped := func(yield func(seq.Record, error) bool) {
				for rec, err := range readFasta(inputArg(args), k) {
					if err != nil {
						yield(rec, err)
						return
					}
					s, err := fn(rec.Seq)
					switch {
					case errors.Is(err, codec.ErrNoORF), errors.Is(err, codec.ErrInvalidBase):
						log.WithFields(log.Fields{"title": rec.Title, "reason": err}).Warn("skipping record")
						continue
					case err != nil:
						yield(rec, errors.Wrapf(err, "record %s", rec.Title))
						return
					}
					rec.Seq = s
					if !yield(rec, nil) {
						return
					}
				}
			}
			return writeFasta(opts.output, cmd.OutOrStdout(), a.cfg.Fasta.Width, mapped)
		},
	}
}

func newORFCmd(opts *seqOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "orf [input]",
		Short: "Print the signed frame of the first start codon and the GC ratio per record",
		Long: `orf prints one line per record: title, frame and GC ratio.
Frames 1 to 3 count from the 5' end, -1 to -3 from the 3' end; "none" means
no AUG was found. Run on RNA (--kind rna).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(opts.kind)
			if err != nil {
				return err
			}
			out, err := openOutput(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer out.Close() //nolint:errcheck // closed explicitly below on success

			for rec, err := range readFasta(inputArg(args), k) {
				if err != nil {
					return err
				}
				frame := "none"
				if f, ok := rec.Seq.FindORF(); ok {
					frame = fmt.Sprintf("%+d", f)
				}
				gc := "-"
				if ratio, ok := rec.Seq.GCRatio(true); ok {
					gc = fmt.Sprintf("%.4f", ratio)
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", rec.Title, frame, gc); err != nil {
					return errors.Wrap(err, "writing output")
				}
			}
			return out.Close()
		},
	}
}

package main

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vertti/biokit/internal/codec"
	"github.com/vertti/biokit/internal/fasta"
	"github.com/vertti/biokit/internal/seq"
)

func newFastaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fasta",
		Short: "Convert and inspect FASTA files",
	}
	cmd.PersistentFlags().Int("width", fasta.DefaultWidth, "residues per output line (0: no wrapping)")
	mustBind(a.v, "fasta.width", cmd.PersistentFlags().Lookup("width"))

	cmd.AddCommand(
		newFastaWrapCmd(a),
		newFastaCheckCmd(),
		newFastaExportJSONCmd(),
		newFastaImportJSONCmd(a),
		newFastaScrambleCmd(a),
	)
	return cmd
}

func newFastaWrapCmd(a *app) *cobra.Command {
	var output, kind string
	cmd := &cobra.Command{
		Use:     "wrap [input]",
		Short:   "Rewrite FASTA with fixed-width sequence lines",
		Example: "  biokit fasta wrap --width 60 genome.fa.gz -o genome.fa",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(kind)
			if err != nil {
				return err
			}
			return writeFasta(output, cmd.OutOrStdout(), a.cfg.Fasta.Width, readFasta(inputArg(args), k))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, compressed by extension (default: stdout)")
	cmd.Flags().StringVar(&kind, "kind", "dna", "sequence kind: dna, rna or protein")
	return cmd
}

func newFastaCheckCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Report length, GC ratio and alphabet problems per record",
		Long: `check loads every record keyed by title and reports them sorted by
title. A repeated title is an error. Characters outside the IUPAC alphabet
of --kind are logged as warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(kind)
			if err != nil {
				return err
			}
			in, err := openInput(inputArg(args))
			if err != nil {
				return err
			}
			defer in.Close() //nolint:errcheck // read-only

			byTitle, err := fasta.ReadMap(in)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "title\tlength\tgc\tvalid")
			for _, title := range sortedKeys(byTitle) {
				rec := byTitle[title]
				rec.Seq.Kind = k
				gc := "-"
				if ratio, ok := rec.Seq.GCRatio(false); ok {
					gc = fmt.Sprintf("%.4f", ratio)
				}
				valid, _ := rec.Seq.Check(true)
				fmt.Fprintf(tw, "%s\t%d\t%s\t%t\n", title, rec.Seq.Len(), gc, valid)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "dna", "sequence kind: dna, rna or protein")
	return cmd
}

func newFastaExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "export-json input output",
		Short:   "Write records as a JSON object keyed by title",
		Example: "  biokit fasta export-json reads.fa reads.json.zst",
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			var recs []seq.Record
			for rec, err := range readFasta(args[0], seq.DNA) {
				if err != nil {
					return err
				}
				recs = append(recs, rec)
			}
			return fasta.SaveJSON(args[1], recs)
		},
	}
}

func newFastaImportJSONCmd(a *app) *cobra.Command {
	var output, kind string
	cmd := &cobra.Command{
		Use:   "import-json input",
		Short: "Convert JSON written by export-json back to FASTA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := codec.ParseKind(kind)
			if err != nil {
				return err
			}
			recs, err := fasta.LoadJSON(args[0], k)
			if err != nil {
				return err
			}
			return writeFasta(output, cmd.OutOrStdout(), a.cfg.Fasta.Width, sliceRecords(recs))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&kind, "kind", "dna", "sequence kind: dna, rna or protein")
	return cmd
}

func newFastaScrambleCmd(a *app) *cobra.Command {
	var output string
	var seed uint64
	cmd := &cobra.Command{
		Use:   "scramble [input]",
		Short: "Shuffle residues within each record",
		Long: `scramble shuffles the residues inside every record. Base composition,
sequence lengths and headers are kept; the actual sequence is destroyed, so
the output can be shared as test data.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			//nolint:gosec // reproducible shuffling, not security
			rng := rand.New(rand.NewPCG(seed, seed))
			scrambled := func(yield func(seq.Record, error) bool) {
				for rec, err := range readFasta(inputArg(args), seq.DNA) {
					if err == nil {
						rec = fasta.Scramble(rec, rng)
					}
					if !yield(rec, err) {
						return
					}
				}
			}
			return writeFasta(output, cmd.OutOrStdout(), a.cfg.Fasta.Width, scrambled)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed for reproducibility")
	return cmd
}

func sliceRecords(recs []seq.Record) iter.Seq2[seq.Record, error] {
	return func(yield func(seq.Record, error) bool) {
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// sortedKeys returns the keys of m in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

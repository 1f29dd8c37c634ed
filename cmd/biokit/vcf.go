package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vertti/biokit/internal/vcf"
)

func newVCFCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcf",
		Short: "Inspect and filter VCF files (.vcf or .vcf.gz)",
	}
	cmd.AddCommand(
		newVCFStatsCmd(a),
		newVCFViewCmd(),
		newVCFMetaCmd(),
		newVCFGenotypeCmd(),
	)
	return cmd
}

func newVCFStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stats file...",
		Short:   "Count records, SNPs, MNPs and indels per file",
		Long:    `stats reads the files in parallel (--workers) and prints one row per file in argument order. SNPs are also counted as MNPs.`,
		Example: "  biokit vcf stats -w 4 chr*.vcf.gz",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sums, err := vcf.Summarize(cmd.Context(), args, a.cfg.Workers)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "path\trecords\tsnps\tmnps\tindels")
			for _, s := range sums {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", s.Path, s.Records, s.SNPs, s.MNPs, s.Indels)
			}
			return tw.Flush()
		},
	}
}

func newVCFViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view file",
		Short: "Parse every data line and print it with its variant class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vcf.WithStream(args[0], vcf.Read, func(s *vcf.Stream) error {
				out := cmd.OutOrStdout()
				for rec, err := range s.Records() {
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintf(out, "%s\t%s\n", variantClass(rec), rec); err != nil {
						return errors.Wrap(err, "writing output")
					}
				}
				return nil
			})
		},
	}
}

func variantClass(rec *vcf.Record) string {
	switch {
	case rec.IsSNP():
		return "snp"
	case rec.IsMNP():
		return "mnp"
	default:
		return "indel"
	}
}

func newVCFMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta file",
		Short: "List the ## meta-information declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := vcf.New(args[0])
			if err != nil {
				return err
			}
			mi, err := s.MetaInfo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, field := range sortedKeys(mi) {
				for _, m := range mi[field] {
					fmt.Fprintf(out, "%s\t%s\n", field, describeMeta(m))
				}
			}
			return nil
		},
	}
}

func describeMeta(m vcf.Meta) string {
	switch m := m.(type) {
	case vcf.ValueMeta:
		return m.Value
	case vcf.FilterMeta:
		return fmt.Sprintf("%s\t%s", m.ID, m.Description)
	case vcf.InfoMeta:
		return fmt.Sprintf("%s\t%s\t%s\t%s", m.ID, m.Number, m.Type, m.Description)
	case vcf.FormatMeta:
		return fmt.Sprintf("%s\t%s\t%s\t%s", m.ID, m.Number, m.Type, m.Description)
	case vcf.StructuredMeta:
		parts := make([]string, 0, len(m.Fields))
		for _, k := range sortedKeys(m.Fields) {
			parts = append(parts, k+"="+m.Fields[k])
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func newVCFGenotypeCmd() *cobra.Command {
	var keep, exclude []string
	var output string
	cmd := &cobra.Command{
		Use:   "genotype file",
		Short: "Select data lines by sample genotype (GT)",
		Long: `genotype copies the header and the data lines where at least one sample
has a genotype in --keep, or, with --exclude, where no sample does.
Files without FORMAT/GT produce a header-only result.`,
		Example: `  biokit vcf genotype --keep 0/1 --keep 1/1 calls.vcf.gz -o hets.vcf.gz
  biokit vcf genotype --exclude 0/0 calls.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(keep) == 0) == (len(exclude) == 0) {
				return errors.New("exactly one of --keep or --exclude is required")
			}
			return vcf.WithStream(args[0], vcf.Read, func(in *vcf.Stream) error {
				if output == "" || output == "-" {
					return copyGenotypes(in, keep, exclude, func(line string) (bool, error) {
						_, err := io.WriteString(cmd.OutOrStdout(), line+"\n")
						return true, err
					})
				}
				return vcf.WithStream(output, vcf.Write, func(out *vcf.Stream) error {
					return copyGenotypes(in, keep, exclude, out.Write)
				})
			})
		},
	}
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "genotypes to keep, e.g. 0/1")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "genotypes to exclude")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .vcf or .vcf.gz (default: stdout)")
	return cmd
}

// copyGenotypes writes the header lines of in, then the selected data lines.
func copyGenotypes(in *vcf.Stream, keep, exclude []string, write func(string) (bool, error)) error {
	for line, err := range in.HeaderLines() {
		if err != nil {
			return err
		}
		if _, err := write(line); err != nil {
			return err
		}
	}

	lines := in.GetGenotype(keep)
	if len(exclude) > 0 {
		lines = in.FilterGenotype(exclude)
	}
	var kept, dropped int
	for line, err := range lines {
		if err != nil {
			return err
		}
		ok, err := write(line)
		if err != nil {
			return err
		}
		if ok {
			kept++
		} else {
			dropped++
		}
	}
	log.WithFields(log.Fields{"path": in.Path(), "kept": kept, "dropped": dropped}).Info("genotype selection done")
	return nil
}

package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
}

// newRootCmd builds the command tree with a fresh viper instance.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "biokit",
		Short: "Read, convert and inspect FASTA and VCF files",
		Long: `biokit works on FASTA sequence files and VCF variant files.

Inputs may be plain, gzip or zstd compressed. VCF paths must end in .vcf
or .gz. Settings come from flags, BIOKIT_* environment variables and an
optional biokit.yaml.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./biokit.yaml if present)")
	flags.IntP("workers", "w", 0, "workers for multi-file commands (default: NumCPU)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	mustBind(a.v, "workers", flags.Lookup("workers"))
	mustBind(a.v, "log-level", flags.Lookup("log-level"))

	root.AddCommand(newFastaCmd(a), newSeqCmd(a), newVCFCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log-level")
	}
	log.SetLevel(level)
	a.cfg = cfg
	log.WithFields(log.Fields{
		"workers": cfg.Workers,
		"width":   cfg.Fasta.Width,
		"config":  a.v.ConfigFileUsed(),
	}).Debug("configuration loaded")
	return nil
}

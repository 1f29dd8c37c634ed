package main

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/vertti/biokit/internal/fasta"
)

// FastaConfig holds settings for FASTA output.
type FastaConfig struct {
	// residues per line when writing; <= 0 writes each sequence on one line
	Width int `mapstructure:"width"`
}

// Config is the merged result of defaults, biokit.yaml, BIOKIT_* environment
// variables and command line flags, in increasing priority.
type Config struct {
	// goroutines used by multi-file commands
	Workers int `mapstructure:"workers"`

	// logrus level name
	LogLevel string `mapstructure:"log-level"`

	Fasta FastaConfig `mapstructure:"fasta"`
}

// loadConfig reads path if given, else an optional ./biokit.yaml, and
// decodes everything v knows into a Config.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("log-level", "info")
	v.SetDefault("fasta.width", fasta.DefaultWidth)

	v.SetEnvPrefix("BIOKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
	} else {
		v.SetConfigName("biokit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, errors.Wrap(err, "reading config biokit.yaml")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	return c, nil
}

package config

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/logger"
)

// Flags holds the command-line logging options an application binds
// into its pflag set. Flags win over the configuration file for the
// settings they cover.
type Flags struct {
	// Level overrides the root level (trace|debug|info|warn|error|fatal).
	Level string
	// Pattern overrides the config-wide default template.
	Pattern string
	// File is the path of the YAML configuration to load and watch.
	File string
	// NoCaller disables source-location capture tree-wide.
	NoCaller bool
}

// AddFlags registers the logging flags on fs.
func (f *Flags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Level, "log-level", "", "Minimum severity for the root logger (trace|debug|info|warn|error|fatal)")
	fs.StringVar(&f.Pattern, "log-pattern", "", "Default output template for sinks without one")
	fs.StringVar(&f.File, "log-config", "", "Path to the YAML logging configuration")
	fs.BoolVar(&f.NoCaller, "log-no-caller", false, "Disable source location capture")
}

// Validate checks flag values without applying them.
func (f *Flags) Validate() error {
	if f.Level != "" {
		if _, err := core.ParseLevelStrict(f.Level); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo merges the flags into cfg: a set flag replaces the file's
// value.
func (f *Flags) ApplyTo(cfg *Config) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if f.Pattern != "" {
		cfg.Pattern = f.Pattern
	}
	if f.Level != "" {
		// Only top-level categories; descendants keep their own gates.
		for i := range cfg.Loggers {
			if !strings.Contains(cfg.Loggers[i].Category, ".") {
				cfg.Loggers[i].Level = f.Level
			}
		}
	}
	if f.NoCaller {
		off := false
		for i := range cfg.Loggers {
			cfg.Loggers[i].Caller = &off
		}
	}
	return nil
}

// BuildOptions translates the flags into logger options for trees
// built without a configuration file.
func (f *Flags) BuildOptions() ([]logger.Option, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var opts []logger.Option
	if f.Level != "" {
		lvl, _ := core.ParseLevelStrict(f.Level)
		opts = append(opts, logger.WithLevel(lvl))
	}
	if f.NoCaller {
		opts = append(opts, logger.WithCaller(false))
	}
	return opts, nil
}

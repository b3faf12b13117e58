// Package config builds logger trees from declarative YAML and keeps
// them in sync with the file at runtime.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/logger"
	"github.com/polter-rnd/slimlog/pattern"
	"github.com/polter-rnd/slimlog/sink"
)

// Config is the root of a YAML logging configuration.
//
//	pattern: "{time} [{level}] {category}: {message}"
//	loggers:
//	  - category: app
//	    level: info
//	    sinks:
//	      - type: console
//	  - category: app.db
//	    level: debug
//	    propagate: true
type Config struct {
	// Pattern is the default template for sinks that do not set one.
	Pattern string `yaml:"pattern"`
	// Loggers declares tree nodes by dotted category. Parents are
	// created implicitly when only a descendant is declared.
	Loggers []LoggerConfig `yaml:"loggers"`
}

// LoggerConfig declares one node of the logger tree.
type LoggerConfig struct {
	Category  string       `yaml:"category"`
	Level     string       `yaml:"level"`
	Propagate *bool        `yaml:"propagate"`
	Caller    *bool        `yaml:"caller"`
	Sinks     []SinkConfig `yaml:"sinks"`
}

// SinkConfig declares one sink attached to a node.
type SinkConfig struct {
	// Type selects the sink: console, file or discard.
	Type string `yaml:"type"`
	// Pattern overrides the config-wide template for this sink.
	Pattern string `yaml:"pattern"`

	// Console options.
	Color *bool `yaml:"color"`

	// File options.
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks levels, templates and sink declarations without
// creating anything. A config that passes Validate will Build.
func (c *Config) Validate() error {
	var errs error
	if c.Pattern != "" {
		if _, err := pattern.New(c.Pattern); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("config: pattern: %w", err))
		}
	}
	seen := make(map[string]struct{}, len(c.Loggers))
	for i, lc := range c.Loggers {
		if lc.Category == "" {
			errs = multierr.Append(errs, fmt.Errorf("config: loggers[%d]: category is required", i))
			continue
		}
		if _, dup := seen[lc.Category]; dup {
			errs = multierr.Append(errs, fmt.Errorf("config: duplicate category %q", lc.Category))
		}
		seen[lc.Category] = struct{}{}
		if lc.Level != "" {
			if _, err := core.ParseLevelStrict(lc.Level); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("config: %s: %w", lc.Category, err))
			}
		}
		for j, sc := range lc.Sinks {
			if err := sc.validate(); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("config: %s: sinks[%d]: %w", lc.Category, j, err))
			}
		}
	}
	return errs
}

func (sc *SinkConfig) validate() error {
	switch sc.Type {
	case "console", "discard":
	case "file":
		if sc.Path == "" {
			return fmt.Errorf("file sink requires a path")
		}
	case "":
		return fmt.Errorf("sink type is required")
	default:
		return fmt.Errorf("unknown sink type %q", sc.Type)
	}
	if sc.Pattern != "" {
		if _, err := pattern.New(sc.Pattern); err != nil {
			return err
		}
	}
	return nil
}

// Tree is a logger hierarchy built from a Config. Lookup resolves the
// nearest declared ancestor of a dotted category.
type Tree struct {
	root    *logger.Logger
	byName  map[string]*logger.Logger
	closers []interface{ Close() error }
}

// Build creates the logger tree. Nodes are linked by their dotted
// category names; a declared node attaches to its nearest declared
// ancestor, or to the implicit root when it has none.
func (c *Config) Build(opts ...logger.Option) (*Tree, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	t := &Tree{
		root:   logger.New("", opts...),
		byName: make(map[string]*logger.Logger, len(c.Loggers)),
	}

	// Parents first, so each node can attach to its nearest declared
	// ancestor already present in the map.
	declared := make([]LoggerConfig, len(c.Loggers))
	copy(declared, c.Loggers)
	sort.Slice(declared, func(i, j int) bool {
		return strings.Count(declared[i].Category, ".") < strings.Count(declared[j].Category, ".")
	})

	for _, lc := range declared {
		parent := t.nearestAncestor(lc.Category)
		nodeOpts := append([]logger.Option{}, opts...)
		if lc.Level != "" {
			lvl, _ := core.ParseLevelStrict(lc.Level)
			nodeOpts = append(nodeOpts, logger.WithLevel(lvl))
		}
		if lc.Propagate != nil {
			nodeOpts = append(nodeOpts, logger.WithPropagate(*lc.Propagate))
		}
		if lc.Caller != nil {
			nodeOpts = append(nodeOpts, logger.WithCaller(*lc.Caller))
		}
		node := parent.NewChild(lc.Category, nodeOpts...)

		for _, sc := range lc.Sinks {
			s, err := c.buildSink(sc)
			if err != nil {
				_ = t.Close()
				return nil, fmt.Errorf("config: %s: %w", lc.Category, err)
			}
			node.AddSink(s)
			if closer, ok := s.(interface{ Close() error }); ok {
				t.closers = append(t.closers, closer)
			}
		}
		t.byName[lc.Category] = node
	}
	return t, nil
}

func (c *Config) buildSink(sc SinkConfig) (sink.Sink, error) {
	var opts []sink.Option
	switch {
	case sc.Pattern != "":
		opts = append(opts, sink.WithPattern(sc.Pattern))
	case c.Pattern != "":
		opts = append(opts, sink.WithPattern(c.Pattern))
	}

	switch sc.Type {
	case "console":
		return sink.NewConsole(sink.ConsoleConfig{Color: sc.Color}, opts...)
	case "file":
		return sink.NewFile(sink.FileConfig{
			Path:       sc.Path,
			MaxSizeMB:  sc.MaxSizeMB,
			MaxBackups: sc.MaxBackups,
			MaxAgeDays: sc.MaxAgeDays,
			Compress:   sc.Compress,
		}, opts...)
	case "discard":
		return sink.NewDiscard(opts...)
	}
	return nil, fmt.Errorf("unknown sink type %q", sc.Type)
}

// nearestAncestor walks dotted prefixes of category from longest to
// shortest and returns the first declared node, or the implicit root.
func (t *Tree) nearestAncestor(category string) *logger.Logger {
	for {
		i := strings.LastIndexByte(category, '.')
		if i < 0 {
			return t.root
		}
		category = category[:i]
		if node, ok := t.byName[category]; ok {
			return node
		}
	}
}

// Root returns the implicit root above all declared nodes.
func (t *Tree) Root() *logger.Logger { return t.root }

// Lookup returns the logger for category, or the nearest declared
// ancestor (ultimately the root) when the exact category is absent.
func (t *Tree) Lookup(category string) *logger.Logger {
	if node, ok := t.byName[category]; ok {
		return node
	}
	return t.nearestAncestor(category)
}

// Close flushes and closes every sink the tree created.
func (t *Tree) Close() error {
	var errs error
	for _, c := range t.closers {
		errs = multierr.Append(errs, c.Close())
	}
	return errs
}

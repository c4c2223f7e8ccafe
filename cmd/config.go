package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tawindow"
)

// runConfig is the YAML shape `tacli compute --config` loads: which
// operator to run, its periods parameter, and the wire Context flags.
// Grounded on the teacher/pack's config-via-YAML idiom (ja7ad-consumption
// and inference-sim both load operator parameters this way rather than
// taking every knob as a flag).
type runConfig struct {
	Operator string `yaml:"operator"`
	Periods  int    `yaml:"periods"`
	Column   string `yaml:"column"`
	// Delay is only consulted by the "fret"/"forwardreturn" operator,
	// which needs four OHLC series rather than one plain column.
	Delay   int `yaml:"delay"`
	Context struct {
		Start         int32  `yaml:"start"`
		Groups        uint32 `yaml:"groups"`
		SkipNaN       bool   `yaml:"skip_nan"`
		StrictlyCycle bool   `yaml:"strictly_cycle"`
	} `yaml:"context"`
}

func (c runConfig) toContext() tawindow.Context {
	var flags uint64
	if c.Context.SkipNaN {
		flags |= tawindow.FlagSkipNaN
	}
	if c.Context.StrictlyCycle {
		flags |= tawindow.FlagStrictlyCycle
	}
	return tawindow.Context{Start: c.Context.Start, Groups: c.Context.Groups, Flags: flags}
}

func loadRunConfig(path string) (runConfig, error) {
	var cfg runConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Column == "" {
		cfg.Column = "close"
	}
	return cfg, nil
}

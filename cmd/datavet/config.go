package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/datavet/pkg/check"
	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// Config is the on-disk shape of a check list. The codec is picked by file
// extension: .yaml/.yml, .toml, or .json.
type Config struct {
	Mode   string      `yaml:"mode" json:"mode" toml:"mode"`
	Checks []CheckSpec `yaml:"checks" json:"checks" toml:"checks"`
}

type CheckSpec struct {
	Type       string   `yaml:"type" json:"type" toml:"type"`
	Column     string   `yaml:"column,omitempty" json:"column,omitempty" toml:"column,omitempty"`
	Columns    []string `yaml:"columns,omitempty" json:"columns,omitempty" toml:"columns,omitempty"`
	Values     []string `yaml:"values,omitempty" json:"values,omitempty" toml:"values,omitempty"`
	Min        *float64 `yaml:"min,omitempty" json:"min,omitempty" toml:"min,omitempty"`
	Max        *float64 `yaml:"max,omitempty" json:"max,omitempty" toml:"max,omitempty"`
	Pattern    string   `yaml:"pattern,omitempty" json:"pattern,omitempty" toml:"pattern,omitempty"`
	Method     string   `yaml:"method,omitempty" json:"method,omitempty" toml:"method,omitempty"`
	Multiplier float64  `yaml:"multiplier,omitempty" json:"multiplier,omitempty" toml:"multiplier,omitempty"`
	Left       string   `yaml:"left,omitempty" json:"left,omitempty" toml:"left,omitempty"`
	Op         string   `yaml:"op,omitempty" json:"op,omitempty" toml:"op,omitempty"`
	Right      string   `yaml:"right,omitempty" json:"right,omitempty" toml:"right,omitempty"`
	MaxMissing *int     `yaml:"max_missing,omitempty" json:"max_missing,omitempty" toml:"max_missing,omitempty"`
}

func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return nil, errors.Newf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

func (c *Config) mode() (dv.Mode, error) {
	switch c.Mode {
	case "", "fail-fast", "failfast":
		return dv.FailFast, nil
	case "collect-all", "collect":
		return dv.CollectAll, nil
	default:
		return 0, errors.Newf("unknown mode %q", c.Mode)
	}
}

// cols returns the target columns of a spec, accepting either the singular
// or plural key.
func (s *CheckSpec) cols() []string {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	if s.Column != "" {
		return []string{s.Column}
	}
	return nil
}

func buildRules(cfg *Config) ([]dv.Rule, error) {
	rules := make([]dv.Rule, 0, len(cfg.Checks))
	for i, s := range cfg.Checks {
		cols := s.cols()
		switch s.Type {
		case "in_set":
			if len(cols) != 1 {
				return nil, errors.Newf("check %d: in_set needs exactly one column", i)
			}
			rules = append(rules, check.InSet(cols[0], s.Values...))
		case "within_bounds", "bounds":
			if len(cols) == 0 {
				return nil, errors.Newf("check %d: within_bounds needs columns", i)
			}
			lo, hi := math.Inf(-1), math.Inf(1)
			if s.Min != nil {
				lo = *s.Min
			}
			if s.Max != nil {
				hi = *s.Max
			}
			rules = append(rules, check.WithinBounds(lo, hi, cols...))
		case "matches":
			if len(cols) == 0 {
				return nil, errors.Newf("check %d: matches needs columns", i)
			}
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, errors.Wrapf(err, "check %d: pattern", i)
			}
			rules = append(rules, check.Matches(re, cols...))
		case "not_null":
			if len(cols) == 0 {
				return nil, errors.Newf("check %d: not_null needs columns", i)
			}
			rules = append(rules, check.NotNull(cols...))
		case "max_missing":
			if s.MaxMissing == nil || len(cols) == 0 {
				return nil, errors.Newf("check %d: max_missing needs columns and max_missing", i)
			}
			rules = append(rules, check.MaxMissing(*s.MaxMissing, cols...))
		case "outliers":
			if len(cols) != 1 {
				return nil, errors.Newf("check %d: outliers needs exactly one column", i)
			}
			method := check.MeanStdDev
			switch s.Method {
			case "", "stddev":
			case "mad":
				method = check.MedianMAD
			default:
				return nil, errors.Newf("check %d: unknown method %q", i, s.Method)
			}
			mult := s.Multiplier
			if mult <= 0 {
				mult = 3
			}
			rules = append(rules, check.Outliers(cols[0], method, mult))
		case "compare":
			if s.Left == "" || s.Op == "" || s.Right == "" {
				return nil, errors.Newf("check %d: compare needs left, op, right", i)
			}
			rules = append(rules, check.Compare(s.Left, s.Op, s.Right))
		default:
			return nil, errors.Newf("check %d: unknown type %q", i, s.Type)
		}
	}
	return rules, nil
}

package config

import (
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/kinduct/kinduct/pkg/smt"
)

// Config is the file-level configuration of a kinduct run. All fields are
// optional; command-line flags override anything loaded from a file.
type Config struct {
	// SolverCommand is the shell-style command string for the SMT
	// solver. `-in` is appended on invocation.
	SolverCommand string `json:"solverCommand,omitempty"`
	// SMTLogDir enables SMT logging into the given directory.
	SMTLogDir string `json:"smtLogDir,omitempty"`
	// InductionWidth is the unroll depth k of the step checker.
	InductionWidth int `json:"inductionWidth,omitempty"`
	// BMCMax bounds the BMC search depth; nil means unbounded.
	BMCMax *int `json:"bmcMax,omitempty"`
	// FailOnUnknown makes a solver `unknown` a fatal error instead of a
	// warning.
	FailOnUnknown bool `json:"failOnUnknown,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SolverCommand:  smt.DefaultCommand,
		InductionWidth: 1,
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "while reading configuration file %q", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "while decoding configuration file %q", path)
	}
	return cfg, nil
}

// Package config provides TOML-driven configuration for the rv64sim
// test suite runner, supplementing its default zero-argument embedded
// test list with an optional override file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config overrides the suite runner's defaults. Every field is
// optional: a zero value means "use the embedded default."
type Config struct {
	Suite struct {
		// Tests lists the test-binary names to run, without their
		// search directory. An empty list keeps the embedded default
		// rv64ui-p-* list.
		Tests []string `toml:"tests"`
		// Dir is the directory test binaries are searched in.
		Dir string `toml:"dir"`
	} `toml:"suite"`

	Memory struct {
		// SizeBytes overrides the mapped guest RAM size.
		SizeBytes uint64 `toml:"size_bytes"`
		// StackPointer overrides the initial value of x2. Zero means
		// "derive from the ELF loader's default top-of-RAM formula."
		StackPointer uint64 `toml:"stack_pointer"`
	} `toml:"memory"`

	// Expect records per-test expected outcomes, keyed by test name,
	// for regression-tracking a test known to currently fail rather
	// than have it silently reported as an unexpected failure.
	Expect map[string]ExpectedOutcome `toml:"expect"`
}

// ExpectedOutcome is the expected result of running one named test.
type ExpectedOutcome struct {
	// Pass is true if the test is expected to pass. When false,
	// TestNum names the expected failing test number.
	Pass    bool   `toml:"pass"`
	TestNum uint64 `toml:"test_num"`
}

// DefaultConfig returns a Config with every override left at its zero
// value, so the suite runner falls back to its embedded defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Load parses a TOML suite configuration file. A missing file is not
// an error: it returns DefaultConfig unchanged, matching the literal
// zero-argument CLI contract this config layer is additive to.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse suite config %s: %w", path, err)
	}

	return cfg, nil
}

// Package config provides configuration management for go-parasect.
package config

import "runtime"

// Config holds all configuration options for a search run.
type Config struct {
	// Search range (inclusive on both ends)
	Low  int64 `json:"low"`
	High int64 `json:"high"`

	// LowSet/HighSet record whether the flags were given at all;
	// both endpoints are required.
	LowSet  bool `json:"-"`
	HighSet bool `json:"-"`

	// Probe command: everything after "--", with SubstitutionString
	// replaced by the candidate index in each probe.
	Command            []string `json:"command"`
	SubstitutionString string   `json:"substitution_string"`

	// Parallelism
	MaxParallelism int `json:"max_parallelism"`

	// Output
	NoTTY     bool   `json:"no_tty"`
	Verbose   bool   `json:"verbose"`
	LogFormat string `json:"log_format"` // json, text

	// Observability
	MetricsAddr string `json:"metrics_addr"` // empty = metrics server disabled

	// Diagnostic modes
	PrintCmd      bool `json:"print_cmd"`
	SkipPreflight bool `json:"skip_preflight"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SubstitutionString: "$X",
		MaxParallelism:     runtime.NumCPU(),
		LogFormat:          "text",
		MetricsAddr:        "", // Disabled; searches are short-lived
	}
}

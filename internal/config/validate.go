package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// All of these are configuration errors detected before any probe
// process is spawned. Returns nil if valid, or a joined error
// describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	// Both range endpoints are required
	if !cfg.LowSet {
		errs = append(errs, ValidationError{
			Field:   "low",
			Message: "--low is required",
		})
	}
	if !cfg.HighSet {
		errs = append(errs, ValidationError{
			Field:   "high",
			Message: "--high is required",
		})
	}

	// The range must be non-empty
	if cfg.LowSet && cfg.HighSet && cfg.Low > cfg.High {
		errs = append(errs, ValidationError{
			Field:   "low",
			Message: fmt.Sprintf("must not exceed high (low is %d, high is %d)", cfg.Low, cfg.High),
		})
	}

	// Parallelism must be positive
	if cfg.MaxParallelism < 1 {
		errs = append(errs, ValidationError{
			Field:   "max_parallelism",
			Message: "must be at least 1",
		})
	}

	// Substitution string must be usable
	if cfg.SubstitutionString == "" {
		errs = append(errs, ValidationError{
			Field:   "substitution_string",
			Message: "must not be empty",
		})
	}

	// The probe command is required and must mention the token
	if len(cfg.Command) == 0 {
		errs = append(errs, ValidationError{
			Field:   "command",
			Message: `the probe command is required (put it after "--")`,
		})
	} else if cfg.SubstitutionString != "" && !commandContains(cfg.Command, cfg.SubstitutionString) {
		errs = append(errs, ValidationError{
			Field:   "command",
			Message: fmt.Sprintf("does not contain the substitution string %q", cfg.SubstitutionString),
		})
	}

	// Log format must be valid
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func commandContains(args []string, token string) bool {
	for _, a := range args {
		if strings.Contains(a, token) {
			return true
		}
	}
	return false
}

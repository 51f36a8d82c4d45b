package config

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses command-line flags and returns a Config.
// The probe command is everything after "--".
func ParseFlags() (*Config, error) {
	return parseFlagSet(os.Args[1:], flag.ExitOnError)
}

// parseFlagSet is the testable core of ParseFlags.
func parseFlagSet(args []string, errorHandling flag.ErrorHandling) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("go-parasect", errorHandling)

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `go-parasect - parallel bisection of an external command over an integer range

Finds the first index in [low, high] where the command flips from
exiting 0 (good) to exiting nonzero (bad), probing several indices
concurrently. The command must be monotonic over the range.

Usage:
  go-parasect --low=INT --high=INT [flags] -- <command> [args...]

The magic string $X in the command's arguments is replaced with the
candidate index for each probe (override with -substitution-string).
Quote it so your shell does not expand it.

Search Flags:
`)
		printFlagCategory(fs, []string{"low", "high", "max-parallelism", "substitution-string"})

		fmt.Fprintf(fs.Output(), "\nOutput:\n")
		printFlagCategory(fs, []string{"no-tty", "v", "log-format"})

		fmt.Fprintf(fs.Output(), "\nObservability:\n")
		printFlagCategory(fs, []string{"metrics"})

		fmt.Fprintf(fs.Output(), "\nDiagnostics:\n")
		printFlagCategory(fs, []string{"print-cmd", "skip-preflight"})

		fmt.Fprintf(fs.Output(), `
Examples:
  # Find the first failing revision between 50 and 500
  go-parasect --low=50 --high=500 -- ./test-revision.sh '$X'

  # Classic bisection, no parallelism, plain log output
  go-parasect --low=0 --high=10 -max-parallelism 1 -no-tty -- ./check.sh --rev='$X'

`)
	}

	// Search flags (each with a single-letter alias)
	fs.Int64Var(&cfg.Low, "low", cfg.Low, "Lowest index to search, inclusive; the command should exit 0 here (required, alias -x)")
	fs.Int64Var(&cfg.Low, "x", cfg.Low, "Alias for -low")
	fs.Int64Var(&cfg.High, "high", cfg.High, "Highest index to search, inclusive; the command should exit nonzero here (required, alias -y)")
	fs.Int64Var(&cfg.High, "y", cfg.High, "Alias for -high")
	fs.IntVar(&cfg.MaxParallelism, "max-parallelism", cfg.MaxParallelism, "Maximum concurrent probe processes (default: logical CPU count, alias -j)")
	fs.IntVar(&cfg.MaxParallelism, "j", cfg.MaxParallelism, "Alias for -max-parallelism")
	fs.StringVar(&cfg.SubstitutionString, "substitution-string", cfg.SubstitutionString, "String replaced by the candidate index in the command (alias -s)")
	fs.StringVar(&cfg.SubstitutionString, "s", cfg.SubstitutionString, "Alias for -substitution-string")

	// Output
	fs.BoolVar(&cfg.NoTTY, "no-tty", cfg.NoTTY, "Disable the terminal dashboard, print a line per event (also implied when stdout is not a terminal, alias -t)")
	fs.BoolVar(&cfg.NoTTY, "t", cfg.NoTTY, "Alias for -no-tty")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// Observability
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (e.g. 127.0.0.1:17091); empty disables the metrics server")

	// Diagnostics
	fs.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the probe command for the low bound and exit")
	fs.BoolVar(&cfg.SkipPreflight, "skip-preflight", cfg.SkipPreflight, "Skip preflight checks")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "low", "x":
			cfg.LowSet = true
		case "high", "y":
			cfg.HighSet = true
		}
	})

	// Positional arguments: the probe command
	cfg.Command = fs.Args()

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(fs.Output(), "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(fs.Output(), " (default %s)", f.DefValue)
				}
				fmt.Fprintln(fs.Output())
				return
			}
		}
	})
}

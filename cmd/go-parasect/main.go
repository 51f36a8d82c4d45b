// Package main provides the go-parasect CLI entry point.
//
// go-parasect finds the first bad index in an integer range by running
// an external predicate command in parallel: probes spread across the
// undetermined interval, and every freed slot is refilled immediately
// as results narrow the window.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/randomizedcoder/go-parasect/internal/command"
	"github.com/randomizedcoder/go-parasect/internal/config"
	"github.com/randomizedcoder/go-parasect/internal/logging"
	"github.com/randomizedcoder/go-parasect/internal/metrics"
	"github.com/randomizedcoder/go-parasect/internal/preflight"
	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/reporter"
	"github.com/randomizedcoder/go-parasect/internal/search"
	"github.com/randomizedcoder/go-parasect/internal/stats"
	"github.com/randomizedcoder/go-parasect/internal/tui"
	"github.com/randomizedcoder/go-parasect/internal/worker"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/go-parasect
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("go-parasect %s\n", version)
			return 0
		}
	}

	// Parse command-line flags
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// The dashboard needs a real terminal; fall back to line output
	// when stdout is a pipe or the user opted out.
	useTUI := !cfg.NoTTY && isatty.IsTerminal(os.Stdout.Fd())

	// Initialize logger
	// When the TUI is active, suppress logs so they cannot corrupt the
	// alternate screen.
	var logger *slog.Logger
	if useTUI {
		logger = logging.NewLoggerWithWriter(io.Discard, cfg.LogFormat, "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	tmpl, err := command.NewTemplate(cfg.Command, cfg.SubstitutionString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	// Handle -print-cmd mode
	if cfg.PrintCmd {
		printProbeCommand(cfg, tmpl)
		return 0
	}

	// Preflight checks
	if !cfg.SkipPreflight {
		result := preflight.RunAll(cfg.MaxParallelism, cfg.Command[0])
		if !result.Passed {
			preflight.PrintResults(result)
			fmt.Fprintln(os.Stderr, "Preflight checks failed (use -skip-preflight to run anyway)")
			return 1
		}
		if cfg.Verbose && !useTUI {
			preflight.PrintResults(result)
		}
	}

	// Log startup
	logger.Info("starting",
		"version", version,
		"low", cfg.Low,
		"high", cfg.High,
		"max_parallelism", cfg.MaxParallelism,
		"command", tmpl.String(),
		"metrics_addr", cfg.MetricsAddr,
	)

	rng := search.Range{Low: cfg.Low, High: cfg.High}

	tracker := stats.NewTracker(rng)
	reporters := reporter.Multi{tracker}

	// Optional Prometheus metrics server
	if cfg.MetricsAddr != "" {
		reporters = append(reporters, metrics.NewCollector(rng, version, tmpl.String()))

		srv := metrics.NewServer(cfg.MetricsAddr, logger)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting metrics server: %v\n", err)
			return 1
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	runner := probe.NewCommandRunner(tmpl)
	pool, err := worker.NewPool(cfg.MaxParallelism, runner, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	summaryCfg := stats.SummaryConfig{
		Range:       rng,
		Parallelism: cfg.MaxParallelism,
		Command:     tmpl.String(),
	}

	if useTUI {
		return runWithDashboard(cfg, rng, pool, tracker, reporters, summaryCfg, logger)
	}
	return runWithLineOutput(cfg, rng, pool, tracker, reporters, summaryCfg, logger)
}

// runWithLineOutput runs the search printing one line per event.
func runWithLineOutput(cfg *config.Config, rng search.Range, pool *worker.Pool,
	tracker *stats.Tracker, reporters reporter.Multi, summaryCfg stats.SummaryConfig,
	logger *slog.Logger) int {

	reporters = append(reporters, reporter.NewLine(os.Stdout))

	coord, err := search.NewCoordinator(rng, pool, reporters, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = coord.Run(ctx)

	// The line reporter already printed the result (or the abort) on
	// stdout; the summary goes to stderr so the result stays the final
	// stdout line.
	fmt.Fprint(os.Stderr, stats.FormatExitSummary(tracker.GetSnapshot(), summaryCfg))

	if err != nil {
		logger.Error("search_failed", "error", err)
		return 1
	}
	return 0
}

// runWithDashboard runs the search behind the live terminal dashboard.
// The coordinator runs on its own goroutine; the Bubble Tea program
// owns the terminal until the search finishes or the user quits.
func runWithDashboard(cfg *config.Config, rng search.Range, pool *worker.Pool,
	tracker *stats.Tracker, reporters reporter.Multi, summaryCfg stats.SummaryConfig,
	logger *slog.Logger) int {

	program := tea.NewProgram(tui.New(tui.Config{
		Range:       rng,
		Parallelism: cfg.MaxParallelism,
		Command:     summaryCfg.Command,
		MetricsAddr: cfg.MetricsAddr,
		StatsSource: tracker,
	}), tea.WithAltScreen())

	reporters = append(reporters, tui.NewReporter(program))

	coord, err := search.NewCoordinator(rng, pool, reporters, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type searchResult struct {
		boundary search.Boundary
		err      error
	}
	done := make(chan searchResult, 1)

	go func() {
		boundary, err := coord.Run(ctx)
		done <- searchResult{boundary, err}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		// Fall through: the search keeps going, wait for it below.
	}

	// The dashboard exits either because the search finished (the
	// reporter forwarded SearchFinished) or because the user quit.
	// Cancel so a user quit stops dispatching and drains probes.
	cancel()
	res := <-done

	if cfg.Verbose || res.err == nil {
		fmt.Fprint(os.Stderr, stats.FormatExitSummary(tracker.GetSnapshot(), summaryCfg))
	}

	if res.err != nil {
		if ctx.Err() != nil && res.err == ctx.Err() {
			fmt.Fprintln(os.Stderr, "Search cancelled.")
		} else {
			fmt.Fprintf(os.Stderr, "Search aborted: %v\n", res.err)
		}
		return 1
	}

	if res.boundary.Found {
		fmt.Printf("First bad index: %d\n", res.boundary.Index)
	} else {
		fmt.Println("No bad index found in range.")
	}
	return 0
}

// printProbeCommand prints the rendered probe command for the low bound.
func printProbeCommand(cfg *config.Config, tmpl *command.Template) {
	fmt.Println("# Probe command template:")
	fmt.Println(tmpl.String())
	fmt.Println()
	fmt.Printf("# Rendered for index %d:\n", cfg.Low)

	for i, arg := range tmpl.Render(cfg.Low) {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(arg)
	}
	fmt.Println()
}

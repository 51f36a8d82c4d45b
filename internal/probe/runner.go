package probe

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/randomizedcoder/go-parasect/internal/command"
)

// Runner builds and synchronously executes probe commands.
// This interface keeps the worker pool decoupled from exec details.
type Runner interface {
	// Run executes the probe for the given index and blocks until the
	// process exits. No timeout is imposed; a hung probe occupies its
	// slot until it finishes.
	Run(ctx context.Context, index int64) Result
}

// CommandRunner runs the rendered command template as an OS process.
type CommandRunner struct {
	template *command.Template
}

// NewCommandRunner creates a Runner for the given template.
func NewCommandRunner(tmpl *command.Template) *CommandRunner {
	return &CommandRunner{template: tmpl}
}

// Run substitutes the index into the template, spawns the process,
// waits for exit, and classifies the result.
func (r *CommandRunner) Run(ctx context.Context, index int64) Result {
	argv := r.template.Render(index)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	// Probe output is not consumed; the exit code is the verdict.
	cmd.Stdout = nil
	cmd.Stderr = nil

	// Own process group so stray children don't hold our terminal.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{
			Index:   index,
			Outcome: OutcomeSpawnError,
			Err: &SpawnError{
				Index:   index,
				Command: strings.Join(argv, " "),
				Err:     err,
			},
			Duration: time.Since(start),
		}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	code, signaled := classifyExit(waitErr)
	if signaled {
		return Result{
			Index:    index,
			Outcome:  OutcomeSpawnError,
			ExitCode: code,
			Signaled: true,
			Err: &SpawnError{
				Index:   index,
				Command: strings.Join(argv, " "),
				Err:     waitErr,
			},
			Duration: duration,
		}
	}

	outcome := OutcomeFail
	if code == 0 {
		outcome = OutcomePass
	}

	return Result{
		Index:    index,
		Outcome:  outcome,
		ExitCode: code,
		Duration: duration,
	}
}

// classifyExit extracts the exit code from a Wait() error and reports
// whether the process died to a signal instead of exiting.
func classifyExit(err error) (code int, signaled bool) {
	if err == nil {
		return 0, false
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Shell convention: 128 + signal number
				return 128 + int(status.Signal()), true
			}
			return status.ExitStatus(), false
		}
		return exitErr.ExitCode(), false
	}

	// Wait itself failed; treat like a signal-level abnormality.
	return 1, true
}

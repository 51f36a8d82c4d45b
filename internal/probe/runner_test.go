package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/randomizedcoder/go-parasect/internal/command"
)

func mustTemplate(t *testing.T, args ...string) *command.Template {
	t.Helper()
	tmpl, err := command.NewTemplate(args, "$X")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	return tmpl
}

func TestCommandRunner_Pass(t *testing.T) {
	tmpl := mustTemplate(t, "sh", "-c", "test $X -lt 70")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 10)
	if res.Outcome != OutcomePass {
		t.Errorf("outcome = %s, want pass (exit code %d, err %v)", res.Outcome, res.ExitCode, res.Err)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if res.Index != 10 {
		t.Errorf("index = %d, want 10", res.Index)
	}
}

func TestCommandRunner_Fail(t *testing.T) {
	tmpl := mustTemplate(t, "sh", "-c", "test $X -lt 70")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 200)
	if res.Outcome != OutcomeFail {
		t.Errorf("outcome = %s, want fail", res.Outcome)
	}
	if res.ExitCode == 0 {
		t.Error("exit code should be nonzero for a failing probe")
	}
}

func TestCommandRunner_ExitCodePreserved(t *testing.T) {
	tmpl := mustTemplate(t, "sh", "-c", "exit $X")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 3)
	if res.Outcome != OutcomeFail {
		t.Errorf("outcome = %s, want fail", res.Outcome)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestCommandRunner_SpawnError(t *testing.T) {
	tmpl := mustTemplate(t, "/nonexistent/probe-binary", "$X")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 5)
	if res.Outcome != OutcomeSpawnError {
		t.Fatalf("outcome = %s, want spawn_error", res.Outcome)
	}

	var se *SpawnError
	if !errors.As(res.Err, &se) {
		t.Fatalf("err = %v, want a SpawnError", res.Err)
	}
	if se.Index != 5 {
		t.Errorf("SpawnError.Index = %d, want 5", se.Index)
	}
	if se.Unwrap() == nil {
		t.Error("SpawnError should wrap the OS error")
	}
}

func TestCommandRunner_SignalKilled(t *testing.T) {
	tmpl := mustTemplate(t, "sh", "-c", "kill -TERM $$; sleep 1 # $X")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 1)
	if res.Outcome != OutcomeSpawnError {
		t.Fatalf("outcome = %s, want spawn_error for a signal-killed probe", res.Outcome)
	}
	if !res.Signaled {
		t.Error("Signaled should be set")
	}
	// Shell convention: 128 + SIGTERM(15)
	if res.ExitCode != 143 {
		t.Errorf("exit code = %d, want 143", res.ExitCode)
	}
}

func TestCommandRunner_RecordsDuration(t *testing.T) {
	tmpl := mustTemplate(t, "sh", "-c", "sleep 0.05 # $X")
	runner := NewCommandRunner(tmpl)

	res := runner.Run(context.Background(), 1)
	if res.Duration <= 0 {
		t.Errorf("duration = %v, want > 0", res.Duration)
	}
}

func TestOutcome_String(t *testing.T) {
	testCases := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomePass, "pass"},
		{OutcomeFail, "fail"},
		{OutcomeSpawnError, "spawn_error"},
		{Outcome(99), "unknown"},
	}
	for _, tc := range testCases {
		if got := tc.outcome.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.outcome, got, tc.want)
		}
	}
}

func TestState_String(t *testing.T) {
	testCases := []struct {
		state State
		want  string
	}{
		{StatePending, "pending"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{State(99), "unknown"},
	}
	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestOutcome_Passed(t *testing.T) {
	if !OutcomePass.Passed() {
		t.Error("OutcomePass.Passed() should be true")
	}
	if OutcomeFail.Passed() || OutcomeSpawnError.Passed() {
		t.Error("only OutcomePass should report Passed")
	}
}

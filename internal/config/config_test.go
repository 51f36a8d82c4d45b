package config

import (
	"flag"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SubstitutionString != "$X" {
		t.Errorf("SubstitutionString = %q, want $X", cfg.SubstitutionString)
	}
	if cfg.MaxParallelism < 1 {
		t.Errorf("MaxParallelism = %d, want >= 1", cfg.MaxParallelism)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want metrics disabled by default", cfg.MetricsAddr)
	}
}

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := parseFlagSet(args, flag.ContinueOnError)
	if err != nil {
		t.Fatalf("parseFlagSet(%v): %v", args, err)
	}
	return cfg
}

func TestParseFlags_FullCommandLine(t *testing.T) {
	cfg := parse(t,
		"--low=50", "--high=500",
		"-max-parallelism", "3",
		"-no-tty",
		"--", "sh", "-c", "test $X -lt 70",
	)

	if cfg.Low != 50 || cfg.High != 500 {
		t.Errorf("range = [%d, %d], want [50, 500]", cfg.Low, cfg.High)
	}
	if !cfg.LowSet || !cfg.HighSet {
		t.Error("LowSet/HighSet should record that both flags were given")
	}
	if cfg.MaxParallelism != 3 {
		t.Errorf("MaxParallelism = %d, want 3", cfg.MaxParallelism)
	}
	if !cfg.NoTTY {
		t.Error("NoTTY should be set")
	}

	want := []string{"sh", "-c", "test $X -lt 70"}
	if len(cfg.Command) != len(want) {
		t.Fatalf("Command = %v, want %v", cfg.Command, want)
	}
	for i := range want {
		if cfg.Command[i] != want[i] {
			t.Errorf("Command[%d] = %q, want %q", i, cfg.Command[i], want[i])
		}
	}
}

func TestParseFlags_EndpointsNotGiven(t *testing.T) {
	cfg := parse(t, "--", "probe", "$X")

	if cfg.LowSet || cfg.HighSet {
		t.Error("LowSet/HighSet should be false when the flags are absent")
	}
}

func TestParseFlags_ZeroIsAValidEndpoint(t *testing.T) {
	cfg := parse(t, "--low=0", "--high=10", "--", "probe", "$X")

	if !cfg.LowSet {
		t.Error("--low=0 should count as set")
	}
	if cfg.Low != 0 {
		t.Errorf("Low = %d, want 0", cfg.Low)
	}
}

func TestParseFlags_NegativeBounds(t *testing.T) {
	cfg := parse(t, "--low=-100", "--high=-5", "--", "probe", "$X")

	if cfg.Low != -100 || cfg.High != -5 {
		t.Errorf("range = [%d, %d], want [-100, -5]", cfg.Low, cfg.High)
	}
}

func TestParseFlags_CustomSubstitution(t *testing.T) {
	cfg := parse(t, "--low=1", "--high=2", "-substitution-string", "{}", "--", "probe", "{}")

	if cfg.SubstitutionString != "{}" {
		t.Errorf("SubstitutionString = %q, want {}", cfg.SubstitutionString)
	}
}

// The single-letter aliases bind to the same fields as the long names.
func TestParseFlags_ShortAliases(t *testing.T) {
	cfg := parse(t,
		"-x", "50", "-y", "500",
		"-j", "3",
		"-s", "{}",
		"-t",
		"--", "sh", "-c", "test {} -lt 70",
	)

	if cfg.Low != 50 || cfg.High != 500 {
		t.Errorf("range = [%d, %d], want [50, 500]", cfg.Low, cfg.High)
	}
	if !cfg.LowSet || !cfg.HighSet {
		t.Error("-x/-y should count as setting the endpoints")
	}
	if cfg.MaxParallelism != 3 {
		t.Errorf("MaxParallelism = %d, want 3", cfg.MaxParallelism)
	}
	if cfg.SubstitutionString != "{}" {
		t.Errorf("SubstitutionString = %q, want {}", cfg.SubstitutionString)
	}
	if !cfg.NoTTY {
		t.Error("-t should set NoTTY")
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	if _, err := parseFlagSet([]string{"-definitely-not-a-flag"}, flag.ContinueOnError); err == nil {
		t.Error("unknown flag should be an error")
	}
}

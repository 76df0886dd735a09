package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.MaxEntries != Default().History.MaxEntries {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "histctl.toml", `
[history]
max_entries = 25

[logging]
level = "debug"

[tracing]
enabled = true
service_name = "histctl-test"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.MaxEntries != 25 {
		t.Errorf("History.MaxEntries = %d, want 25", cfg.History.MaxEntries)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.ServiceName != "histctl-test" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	// Unset keys keep their defaults.
	if !cfg.Tracing.Stdout || cfg.Demo.Step != 1 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"histctl.yaml", "histctl.yml"} {
		path := writeFile(t, dir, name, `
history:
  max_entries: 0
demo:
  start: 10
  step: 5
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
		if cfg.History.MaxEntries != 0 {
			t.Errorf("%s: History.MaxEntries = %d, want 0", name, cfg.History.MaxEntries)
		}
		if cfg.Demo.Start != 10 || cfg.Demo.Step != 5 {
			t.Errorf("%s: Demo = %+v", name, cfg.Demo)
		}
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "histctl.ini", "x=1")

	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_TOMLParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "[history]\nmax_entries = = 3\n")

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != path {
		t.Errorf("Path = %q, want %q", perr.Path, path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestLoad_YAMLParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "history:\n  max_entries: lots\n")

	_, err := Load(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "neg.toml", "[history]\nmax_entries = -2\n")

	if _, err := Load(path); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "histctl.toml", "[history]\nmax_entries = 25\n")
	t.Setenv("HISTCTL_HISTORY_MAX_ENTRIES", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.History.MaxEntries != 7 {
		t.Errorf("History.MaxEntries = %d, want 7", cfg.History.MaxEntries)
	}
}

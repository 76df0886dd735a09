package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func restoreGlobalProvider(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestInit_Writer(t *testing.T) {
	restoreGlobalProvider(t)
	var buf bytes.Buffer

	shutdown, err := Init(context.Background(), Config{
		ServiceName: "histctl-test",
		UseStdout:   true,
		Writer:      &buf,
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "test.span")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "test.span") {
		t.Errorf("exported output missing span name: %s", out)
	}
	if !strings.Contains(out, "histctl-test") {
		t.Errorf("exported output missing service name: %s", out)
	}
}

func TestInit_File(t *testing.T) {
	restoreGlobalProvider(t)
	path := filepath.Join(t.TempDir(), "traces.json")

	shutdown, err := Init(context.Background(), Config{UseStdout: true, File: path})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	_, span := otel.Tracer("test").Start(context.Background(), "file.span")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if !strings.Contains(string(data), "file.span") {
		t.Errorf("trace file missing span: %s", data)
	}
}

func TestInit_NoExporter(t *testing.T) {
	restoreGlobalProvider(t)

	shutdown, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestInit_BadFile(t *testing.T) {
	restoreGlobalProvider(t)
	path := filepath.Join(t.TempDir(), "missing", "traces.json")

	if _, err := Init(context.Background(), Config{UseStdout: true, File: path}); err == nil {
		t.Error("expected error for an unwritable trace file")
	}
}

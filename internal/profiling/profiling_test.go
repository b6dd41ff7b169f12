package profiling

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/logging"
)

func TestProfiler_Disabled(t *testing.T) {
	cfg := Config{}
	if cfg.Enabled() {
		t.Error("empty config should be disabled")
	}

	p := New(cfg, nil)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestProfiler_WritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPUProfilePath: filepath.Join(dir, "cpu.pprof"),
		MemProfilePath: filepath.Join(dir, "mem.pprof"),
	}
	if !cfg.Enabled() {
		t.Fatal("config with paths should be enabled")
	}

	p := New(cfg, nil)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	sum := 0
	for i := 0; i < 100000; i++ {
		sum += i
	}
	_ = sum

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	for _, path := range []string{cfg.CPUProfilePath, cfg.MemProfilePath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("profile %s not written: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("profile %s is empty", path)
		}
	}
}

func TestProfiler_BadCPUPath(t *testing.T) {
	p := New(Config{CPUProfilePath: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}, nil)
	if err := p.Start(); err == nil {
		t.Error("Expected error for unwritable CPU profile path")
	}
}

func TestProfiler_LogsOnlyWhenEnabled(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Format: "json", Output: &logs})

	p := New(Config{}, logger)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("disabled profiler logged %q", logs.String())
	}

	p = New(Config{MemProfilePath: filepath.Join(t.TempDir(), "mem.pprof")}, logger)
	if err := p.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !strings.Contains(logs.String(), "Profiling enabled") {
		t.Errorf("expected enabled log, got %q", logs.String())
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

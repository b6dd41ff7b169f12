// Package profiling writes CPU and heap profiles of a run to files.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	runtimepprof "runtime/pprof"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/logging"
)

// Config holds profiling configuration
type Config struct {
	CPUProfilePath string `yaml:"cpu_profile,omitempty"` // Path for CPU profile output
	MemProfilePath string `yaml:"mem_profile,omitempty"` // Path for heap profile output
}

// Enabled reports whether any profile was requested
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// Profiler captures profiles around a run
type Profiler struct {
	config  Config
	logger  *logging.Logger
	cpuFile *os.File
}

// New creates a new profiler
func New(config Config, logger *logging.Logger) *Profiler {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Profiler{
		config: config,
		logger: logger.WithComponent("profiling"),
	}
}

// Start begins CPU profiling if a CPU profile path is configured
func (p *Profiler) Start() error {
	if !p.config.Enabled() {
		return nil
	}

	p.logger.Debug().
		Str("cpu_profile", p.config.CPUProfilePath).
		Str("mem_profile", p.config.MemProfilePath).
		Msg("Profiling enabled")

	if p.config.CPUProfilePath == "" {
		return nil
	}

	f, err := os.Create(p.config.CPUProfilePath)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile: %w", err)
	}

	if err := runtimepprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to start CPU profiling: %w", err)
	}

	p.cpuFile = f
	p.logger.Debug().Str("path", p.config.CPUProfilePath).Msg("CPU profiling started")
	return nil
}

// Stop finishes the CPU profile and writes the heap profile, if configured
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		runtimepprof.StopCPUProfile()
		err := p.cpuFile.Close()
		p.cpuFile = nil
		if err != nil {
			return fmt.Errorf("failed to close CPU profile: %w", err)
		}
		p.logger.Debug().Str("path", p.config.CPUProfilePath).Msg("CPU profile saved")
	}

	if p.config.MemProfilePath != "" {
		if err := p.writeMemProfile(); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}

	return nil
}

// writeMemProfile writes memory profile to file
func (p *Profiler) writeMemProfile() error {
	f, err := os.Create(p.config.MemProfilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	runtime.GC() // Get up-to-date statistics

	if err := runtimepprof.WriteHeapProfile(f); err != nil {
		return err
	}

	p.logger.Debug().Str("path", p.config.MemProfilePath).Msg("Memory profile saved")
	return nil
}

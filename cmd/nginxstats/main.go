package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/config"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/logging"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/metrics"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/parser"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/pipeline"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/profiling"
)

var version = "0.1.0"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nginxstats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to optional YAML configuration file")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: nginxstats [flags] <input_log_path> <output_txt_path>\n\n")
		fmt.Fprintf(fs.Output(), "Counts requests per client address and operating system.\n")
		fmt.Fprintf(fs.Output(), "Flags may appear before or after the paths.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if len(args) == 0 {
		fs.Usage()
		return exitError
	}

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "nginxstats %s\n", version)
		return exitOK
	}

	if len(positional) != 2 {
		fmt.Fprintf(stderr, "Error: %v: expected <input_log_path> and <output_txt_path>, got %d argument(s)\n", errUsage, len(positional))
		fs.Usage()
		return exitUsage
	}

	if err := process(*configFile, positional[0], positional[1], stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	return exitOK
}

// parseArgs accepts flags before, between and after the positional
// arguments. Everything after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}

		rest := fs.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func process(configFile, inputPath, outputPath string, stderr io.Writer) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})

	logParser, err := parser.New(cfg.ParserSettings())
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	profiler := profiling.New(cfg.Profiling, logger)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer func() {
		if perr := profiler.Stop(); perr != nil {
			logger.Warn().Err(perr).Msg("Failed to finish profiling")
		}
	}()

	collector := metrics.NewCollector()

	p := pipeline.New(pipeline.Options{
		Parser:            logParser,
		Logger:            logger,
		Metrics:           collector,
		InputCompression:  cfg.InputCompression(),
		ReportCompression: cfg.ReportCompression(),
	})

	event := logger.Debug().Str("version", version).Str("parser", logParser.Name())
	if _, ok := logParser.(*parser.CombinedParser); ok {
		event = event.Strs("grammars", parser.GetAvailableGrokPatterns())
	}
	event.Msg("Starting nginxstats")

	if _, err := p.Run(inputPath, outputPath); err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			// The report is already complete; a missing metrics file is not fatal.
			logger.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to export metrics")
		}
	}

	return nil
}

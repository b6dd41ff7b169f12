// Package pipeline drives a single pass over an access log: every line is
// parsed, classified and counted, then the sorted counts are written out.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/therealutkarshpriyadarshi/nginxstats/internal/classify"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/compression"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/input"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/logging"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/metrics"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/output"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/parser"
	"github.com/therealutkarshpriyadarshi/nginxstats/internal/stats"
	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

var (
	// ErrInput marks failures to open or read the input log
	ErrInput = errors.New("input error")
	// ErrOutput marks failures to create or write the report
	ErrOutput = errors.New("output error")
)

// Options configures a Pipeline
type Options struct {
	Parser            parser.Parser
	Logger            *logging.Logger
	Metrics           *metrics.Collector
	InputCompression  compression.Type
	ReportCompression compression.Type
}

// Pipeline aggregates visit statistics from access logs. It is not safe
// for concurrent use.
type Pipeline struct {
	parser            parser.Parser
	logger            *logging.Logger
	metrics           *metrics.Collector
	inputCompression  compression.Type
	reportCompression compression.Type
}

// New creates a new pipeline. A nil Parser means the quoted parser and a
// nil Logger discards diagnostics.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		parser:            opts.Parser,
		logger:            opts.Logger,
		metrics:           opts.Metrics,
		inputCompression:  opts.InputCompression,
		reportCompression: opts.ReportCompression,
	}

	if p.parser == nil {
		p.parser = parser.NewQuotedParser()
	}
	if p.logger == nil {
		p.logger = logging.Nop()
	}
	p.logger = p.logger.WithComponent("pipeline")

	// Every label is exported, a zero count included.
	if p.metrics != nil {
		for _, label := range classify.Labels() {
			p.metrics.ParserRecords.WithLabelValues(p.parser.Name(), label)
		}
	}

	return p
}

// Run reads inputPath to the end, then creates or truncates outputPath and
// writes the report. The output is not touched unless the whole input was
// read successfully.
func (p *Pipeline) Run(inputPath, outputPath string) (types.RunStats, error) {
	start := time.Now()

	table, runStats, err := p.processFile(inputPath)
	if err != nil {
		return runStats, err
	}

	entries := table.Entries()
	if err := output.WriteFile(outputPath, entries, p.reportCompression); err != nil {
		return runStats, fmt.Errorf("%w: failed to write report %s: %w", ErrOutput, outputPath, err)
	}

	elapsed := time.Since(start)
	if p.metrics != nil {
		p.metrics.ObserveRun(len(entries), elapsed)
	}

	p.logger.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int64("lines", runStats.Lines).
		Int64("parsed", runStats.Parsed).
		Int64("skipped", runStats.Skipped).
		Int("entries", len(entries)).
		Dur("elapsed", elapsed).
		Msg("Report written")

	return runStats, nil
}

// processFile opens, aggregates and closes the input log
func (p *Pipeline) processFile(path string) (*stats.Table, types.RunStats, error) {
	in, err := input.Open(path, p.inputCompression)
	if err != nil {
		return nil, types.RunStats{}, fmt.Errorf("%w: failed to open input file: %w", ErrInput, err)
	}
	defer in.Close()

	p.logger.Debug().Str("input", in.Path()).Str("parser", p.parser.Name()).Msg("Reading input")

	table, runStats, err := p.Process(in, in.Path())
	if err != nil {
		return nil, runStats, fmt.Errorf("%w: %s: %w", ErrInput, path, err)
	}

	return table, runStats, nil
}

// Process aggregates every line of r into a new table. source labels
// metrics and log entries.
func (p *Pipeline) Process(r io.Reader, source string) (*stats.Table, types.RunStats, error) {
	table := stats.New()
	var runStats types.RunStats

	err := input.ForEachLine(r, func(line string) {
		runStats.Lines++
		if p.metrics != nil {
			p.metrics.InputLines.WithLabelValues(source).Inc()
		}

		rec, ok := p.parser.Parse(line)
		if !ok || rec.Address == "" {
			runStats.Skipped++
			if p.metrics != nil {
				p.metrics.ParserSkipped.WithLabelValues(p.parser.Name()).Inc()
			}
			p.logger.Debug().Int64("line", runStats.Lines).Msg("Skipping line without client address")
			return
		}

		label := classify.OS(rec.Agent)
		table.Add(types.StatKey{Address: rec.Address, OS: label})
		runStats.Parsed++
		if p.metrics != nil {
			p.metrics.ParserRecords.WithLabelValues(p.parser.Name(), label).Inc()
		}
	})
	if err != nil {
		return nil, runStats, err
	}

	return table, runStats, nil
}

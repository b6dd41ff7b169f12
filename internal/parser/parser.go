package parser

import (
	"fmt"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

// Parser defines the interface for access-log line parsers
type Parser interface {
	// Parse extracts the client address and agent string from a raw line.
	// ok is false when the line yields no address and must be skipped.
	Parse(line string) (rec types.Record, ok bool)

	// Name returns the parser name
	Name() string
}

// ParserType represents different parser types
type ParserType string

const (
	// ParserTypeQuoted takes the address from the first token and the agent
	// from the second-to-last quoted segment
	ParserTypeQuoted ParserType = "quoted"
	// ParserTypeCombined matches the full common/combined log grammar
	ParserTypeCombined ParserType = "combined"
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	Type ParserType `yaml:"type"`
}

// New creates a new parser based on the configuration
func New(cfg *ParserConfig) (Parser, error) {
	if cfg == nil {
		return nil, fmt.Errorf("parser configuration is nil")
	}

	switch cfg.Type {
	case ParserTypeQuoted, "":
		return NewQuotedParser(), nil
	case ParserTypeCombined:
		return NewCombinedParser()
	default:
		return nil, fmt.Errorf("unknown parser type: %s", cfg.Type)
	}
}

// DefaultParserConfig returns a default parser configuration
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		Type: ParserTypeQuoted,
	}
}

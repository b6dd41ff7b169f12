package parser

import (
	"strings"
	"unicode"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

// QuotedParser is a field-position heuristic, not a grammar. In the
// combined layout the quoted fields are request (1), referrer (3) and
// agent (5), so the agent is the second-from-last segment after splitting
// on '"'. Lines with escaped or reordered quotes get a best-effort agent.
type QuotedParser struct{}

// NewQuotedParser creates a new quoted-segment parser
func NewQuotedParser() *QuotedParser {
	return &QuotedParser{}
}

// Parse implements Parser
func (p *QuotedParser) Parse(line string) (types.Record, bool) {
	line = strings.TrimFunc(line, isSpace)
	if line == "" {
		return types.Record{}, false
	}

	tokens := strings.FieldsFunc(line, isSpace)
	if len(tokens) == 0 {
		return types.Record{}, false
	}

	rec := types.Record{Address: tokens[0]}

	if strings.Contains(line, `"`) {
		segments := strings.Split(line, `"`)
		if len(segments) >= 2 {
			rec.Agent = strings.TrimFunc(segments[len(segments)-2], isSpace)
		}
	}

	return rec, true
}

// Name returns the parser name
func (p *QuotedParser) Name() string {
	return string(ParserTypeQuoted)
}

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C..U+001F, which log producers treat as field whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

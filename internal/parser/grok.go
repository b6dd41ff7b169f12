package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

// Grok field names the combined parser reads
const (
	fieldClientIP = "clientip"
	fieldAgent    = "agent"
)

// Grok building blocks for the common/combined access-log grammar
var grokPatterns = map[string]string{
	"USERNAME": `[a-zA-Z0-9._@-]+`,
	"USER":     `%{USERNAME}`,
	"INT":      `(?:[+-]?(?:[0-9]+))`,
	"NUMBER":   `(?:%{INT}(?:\.[0-9]+)?)`,
	"WORD":     `\b\w+\b`,
	"NOTSPACE": `\S+`,
	"DATA":     `.*?`,

	"MONTHDAY": `(?:(?:0[1-9])|(?:[12][0-9])|(?:3[01])|[1-9])`,
	"MONTH":    `\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\b`,
	"YEAR":     `(?:\d\d){1,2}`,
	"HOUR":     `(?:2[0123]|[01]?[0-9])`,
	"MINUTE":   `(?:[0-5][0-9])`,
	"SECOND":   `(?:(?:[0-5]?[0-9]|60)(?:[:.,][0-9]+)?)`,
	"TIME":     `%{HOUR}:%{MINUTE}(?::%{SECOND})?`,
	"HTTPDATE": `%{MONTHDAY}/%{MONTH}/%{YEAR}:%{TIME} %{INT}`,

	"IPV4":     `(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`,
	"IPV6":     `(?:[0-9A-Fa-f]{0,4}:){2,7}[0-9A-Fa-f]{0,4}(?:%[0-9A-Za-z]+)?`,
	"IP":       `(?:%{IPV6}|%{IPV4})`,
	"HOSTNAME": `\b(?:[0-9A-Za-z][0-9A-Za-z-]{0,62})(?:\.(?:[0-9A-Za-z][0-9A-Za-z-]{0,62}))*\.?`,
	"IPORHOST": `(?:%{IP}|%{HOSTNAME})`,

	"COMMONAPACHELOG": `%{IPORHOST:clientip} %{USER:ident} %{USER:auth} \[%{HTTPDATE:timestamp}\] "(?:%{WORD:verb} %{NOTSPACE:request}(?: HTTP/%{NUMBER:httpversion})?|%{DATA:rawrequest})" %{NUMBER:response} (?:%{NUMBER:bytes}|-)`,
}

// Named line grammars, tried in order by the combined parser
var namedGrokPatterns = []struct {
	name    string
	pattern string
}{
	{"combined", `^%{COMMONAPACHELOG} "%{DATA:referrer}" "%{DATA:agent}"(?:\s.*)?$`},
	{"common", `^%{COMMONAPACHELOG}$`},
}

var grokRefPattern = regexp.MustCompile(`%\{([A-Z0-9_]+)(?::([a-z0-9_]+))?\}`)

// CombinedParser matches lines against the common/combined log grammar.
// Unlike QuotedParser it rejects lines that do not fit the grammar.
type CombinedParser struct {
	patterns []*regexp.Regexp
}

// NewCombinedParser creates a new grammar-based parser
func NewCombinedParser() (*CombinedParser, error) {
	p := &CombinedParser{}

	for _, named := range namedGrokPatterns {
		expanded, err := expandGrokPattern(named.pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand grok pattern %s: %w", named.name, err)
		}

		re, err := regexp.Compile(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to compile grok pattern %s: %w", named.name, err)
		}
		p.patterns = append(p.patterns, re)
	}

	return p, nil
}

// expandGrokPattern expands %{PATTERN} and %{PATTERN:field} references to regex
func expandGrokPattern(pattern string) (string, error) {
	expanded := pattern
	maxIterations := 100

	for i := 0; i < maxIterations; i++ {
		matches := grokRefPattern.FindAllStringSubmatch(expanded, -1)
		if len(matches) == 0 {
			return expanded, nil
		}

		for _, match := range matches {
			replacement, ok := grokPatterns[match[1]]
			if !ok {
				return "", fmt.Errorf("unknown grok pattern: %s", match[1])
			}

			if fieldName := match[2]; fieldName != "" {
				replacement = fmt.Sprintf("(?P<%s>%s)", fieldName, replacement)
			}

			expanded = strings.Replace(expanded, match[0], replacement, 1)
		}
	}

	return "", fmt.Errorf("grok pattern nesting too deep: %s", pattern)
}

// Parse implements Parser
func (p *CombinedParser) Parse(line string) (types.Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return types.Record{}, false
	}

	for _, re := range p.patterns {
		match := re.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		var rec types.Record
		for i, name := range re.SubexpNames() {
			switch name {
			case fieldClientIP:
				rec.Address = match[i]
			case fieldAgent:
				rec.Agent = strings.TrimSpace(match[i])
			}
		}

		if rec.Address == "" {
			return types.Record{}, false
		}
		return rec, true
	}

	return types.Record{}, false
}

// Name returns the parser name
func (p *CombinedParser) Name() string {
	return string(ParserTypeCombined)
}

// GetAvailableGrokPatterns returns the names of the line grammars, in match order
func GetAvailableGrokPatterns() []string {
	names := make([]string, 0, len(namedGrokPatterns))
	for _, named := range namedGrokPatterns {
		names = append(names, named.name)
	}
	return names
}

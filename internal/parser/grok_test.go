package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/therealutkarshpriyadarshi/nginxstats/pkg/types"
)

func TestCombinedParser_Parse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   types.Record
		wantOK bool
	}{
		{
			name:   "nginx combined",
			input:  `188.41.16.190 - - [20/Jun/2024:12:56:06 +0300] "GET /a HTTP/1.1" 200 100 "-" "Mozilla/5.0 (Windows NT 10.0)"`,
			want:   types.Record{Address: "188.41.16.190", Agent: "Mozilla/5.0 (Windows NT 10.0)"},
			wantOK: true,
		},
		{
			name:   "authenticated user and dash bytes",
			input:  `10.1.2.3 - alice [01/Jan/2024:00:00:01 +0000] "POST /login HTTP/2.0" 302 - "https://example.com/" "Mozilla/5.0 (X11; Linux x86_64)"`,
			want:   types.Record{Address: "10.1.2.3", Agent: "Mozilla/5.0 (X11; Linux x86_64)"},
			wantOK: true,
		},
		{
			name:   "trailing forwarded-for field",
			input:  `10.1.2.3 - - [01/Jan/2024:00:00:01 +0000] "GET / HTTP/1.1" 200 5 "-" "curl/8.0" "203.0.113.9"`,
			want:   types.Record{Address: "10.1.2.3", Agent: "curl/8.0"},
			wantOK: true,
		},
		{
			name:   "hostname client",
			input:  `proxy.example.com - - [01/Jan/2024:00:00:01 +0000] "GET / HTTP/1.1" 200 5 "-" "Mozilla/5.0 (Macintosh)"`,
			want:   types.Record{Address: "proxy.example.com", Agent: "Mozilla/5.0 (Macintosh)"},
			wantOK: true,
		},
		{
			name:   "common log has no agent",
			input:  `127.0.0.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326`,
			want:   types.Record{Address: "127.0.0.1"},
			wantOK: true,
		},
		{
			name:   "malformed request line",
			input:  `127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "\x16\x03\x01" 400 0 "-" "-"`,
			want:   types.Record{Address: "127.0.0.1", Agent: "-"},
			wantOK: true,
		},
		{
			name:   "no quoted fields",
			input:  "1.2.3.4 - - [x] GET /x",
			wantOK: false,
		},
		{
			name:   "free text",
			input:  "this is not an access log",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "   ",
			wantOK: false,
		},
	}

	p, err := NewCombinedParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Parse() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCombinedParser_AgreesWithQuoted(t *testing.T) {
	lines := []string{
		`188.41.16.190 - - [20/Jun/2024:12:56:06 +0300] "GET /a HTTP/1.1" 200 100 "-" "Mozilla/5.0 (Windows NT 10.0)"`,
		`66.249.66.1 - - [20/Jun/2024:12:56:07 +0300] "GET /robots.txt HTTP/1.1" 404 153 "-" "Googlebot/2.1 (+http://www.google.com/bot.html)"`,
		`192.168.0.7 - bob [20/Jun/2024:12:56:08 +0300] "GET /img.png HTTP/1.1" 200 4096 "https://example.com/page" "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"`,
	}

	combined, err := NewCombinedParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	quoted := NewQuotedParser()

	for _, line := range lines {
		want, _ := quoted.Parse(line)
		got, ok := combined.Parse(line)
		if !ok {
			t.Errorf("combined parser rejected well-formed line: %s", line)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parsers disagree (-quoted +combined):\n%s", diff)
		}
	}
}

func TestExpandGrokPattern(t *testing.T) {
	expanded, err := expandGrokPattern(`%{IPORHOST:clientip} %{NUMBER}`)
	if err != nil {
		t.Fatalf("expandGrokPattern() error = %v", err)
	}

	if strings.Contains(expanded, "%{") {
		t.Errorf("expanded pattern still has references: %s", expanded)
	}
	if !strings.Contains(expanded, "(?P<clientip>") {
		t.Errorf("expanded pattern lacks named group: %s", expanded)
	}
}

func TestExpandGrokPattern_Unknown(t *testing.T) {
	if _, err := expandGrokPattern(`%{NOPE:field}`); err == nil {
		t.Error("Expected error for unknown grok pattern")
	}
}

func TestCombinedParser_Name(t *testing.T) {
	p, err := NewCombinedParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	if p.Name() != "combined" {
		t.Errorf("Name() = %v, want %v", p.Name(), "combined")
	}
}

func TestGetAvailableGrokPatterns(t *testing.T) {
	want := []string{"combined", "common"}
	if diff := cmp.Diff(want, GetAvailableGrokPatterns()); diff != "" {
		t.Errorf("GetAvailableGrokPatterns() mismatch (-want +got):\n%s", diff)
	}
}

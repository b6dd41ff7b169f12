// Package classify maps a client agent string to a coarse operating system label.
package classify

import "strings"

// OS labels
const (
	Windows   = "Windows"
	Macintosh = "Macintosh"
	Linux     = "Linux"
	Other     = "Other"
)

// rules are checked in order, first match wins
var rules = []struct {
	label   string
	needles []string
}{
	{Windows, []string{"windows"}},
	{Macintosh, []string{"macintosh", "mac os"}},
	{Linux, []string{"linux", "x11"}},
}

// OS returns the label for an agent string. Matching is a case-insensitive
// substring test; an empty agent is Other.
func OS(agent string) string {
	if agent == "" {
		return Other
	}

	ua := strings.ToLower(agent)
	for _, rule := range rules {
		for _, needle := range rule.needles {
			if strings.Contains(ua, needle) {
				return rule.label
			}
		}
	}

	return Other
}

// Labels returns every label OS can produce
func Labels() []string {
	return []string{Windows, Macintosh, Linux, Other}
}

package format

import (
	"regexp"
	"strings"
)

var agentLineRegex = regexp.MustCompile(`^Agent:[ \t]*(.*\S)[ \t]*$`)

// ExtractAgentTag removes the leading "Agent: <name>" lines from raw and returns the
// remaining body together with the name from the first tag line. Blank lines before or
// between the tags are dropped with them. When no tag leads the text, body is raw
// unchanged and agent is empty.
func ExtractAgentTag(raw string) (body, agent string) {
	rest := raw
	found := false

	for {
		line, tail, hasTail := strings.Cut(rest, "\n")
		trimmed := strings.TrimRight(line, "\r")

		if strings.TrimSpace(trimmed) == "" {
			if !hasTail {
				break
			}
			// blank separator, keep looking for a tag below it
			if !isTagAhead(tail) {
				break
			}
			rest = tail
			continue
		}

		m := agentLineRegex.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		if !found {
			agent = strings.TrimSpace(m[1])
			found = true
		}
		if !hasTail {
			rest = ""
			break
		}
		rest = tail
	}

	if !found {
		return raw, ""
	}
	return strings.TrimLeft(rest, "\r\n"), agent
}

// isTagAhead reports whether the first non-blank line of s is an agent tag.
func isTagAhead(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return agentLineRegex.MatchString(line)
	}
	return false
}

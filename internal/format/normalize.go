// Package format turns raw multi-agent backend replies into the reduced display dialect
// (bold, bullets, numbered lists) understood by the renderer.
package format

import (
	"regexp"
	"strings"
)

var (
	headerRegex       = regexp.MustCompile(`(?m)^#{1,3} (.+)$`)
	starBulletRegex   = regexp.MustCompile(`(?m)^\* (.+)$`)
	numberedItemRegex = regexp.MustCompile(`(?m)^(\d+)\. (.+)$`)
	excessBoldRegex   = regexp.MustCompile(`\*{3,}`)

	lineEndingReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Normalize rewrites markdown-ish text into the display dialect. It never fails and is
// idempotent: Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string) string {
	out := lineEndingReplacer.Replace(text)

	out = headerRegex.ReplaceAllString(out, "**$1**")
	out = starBulletRegex.ReplaceAllString(out, "• $1")
	// numbered items keep the upstream numbering
	out = numberedItemRegex.ReplaceAllString(out, "$1. $2")
	out = excessBoldRegex.ReplaceAllString(out, "**")

	return out
}

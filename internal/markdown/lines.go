// Package markdown implements the line-level grammar of the planning
// document: locating named sections, scanning records inside them and
// decoding inline config blocks.
package markdown

import (
	"regexp"
	"strings"
)

// SplitLines splits document text into lines. JoinLines(SplitLines(s)) == s
// for every s.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Indent returns the visual indentation width of a line. Tabs count as two
// spaces.
func Indent(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width
		}
	}
	return width
}

// IsBlank reports whether the line has only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Slug lowercases s and collapses every run of characters outside [a-z0-9]
// into a single "-", trimming dashes at both ends.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var (
	headingLikeRe = regexp.MustCompile(`^\\*#`)
	escapedRe     = regexp.MustCompile(`^\\+#`)
)

// EscapeText prefixes a backslash to a free-text line that would otherwise
// read back as a heading. Lines that already start with backslashes before a
// "#" get one more, so UnescapeText can always undo it.
func EscapeText(line string) string {
	trimmed := strings.TrimSpace(line)
	if headingLikeRe.MatchString(trimmed) {
		return `\` + trimmed
	}
	return line
}

// UnescapeText reverses EscapeText on a trimmed line.
func UnescapeText(line string) string {
	if escapedRe.MatchString(line) {
		return line[1:]
	}
	return line
}

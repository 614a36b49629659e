package markdown

import (
	"regexp"
	"strings"
)

// Range is the half-open line range [Start, End) owned by a section.
type Range struct {
	Start int
	End   int
}

// Absent is returned by Locate when the section marker is not present.
var Absent = Range{Start: -1, End: -1}

// Found reports whether the section exists.
func (r Range) Found() bool { return r.Start >= 0 }

var anchorRe = regexp.MustCompile(`^<!--\s*[^:]+?\s*-->$`)

// Anchor returns the structural comment that introduces a section.
func Anchor(name string) string { return "<!-- " + name + " -->" }

// Heading returns the level-1 heading of a section.
func Heading(name string) string { return "# " + name }

// isLevel1 reports whether the raw line is a level-1 heading. Indented lines
// such as task descriptions never are.
func isLevel1(line string) bool {
	return strings.HasPrefix(strings.TrimRight(line, " \t"), "# ")
}

// Locate returns the range owned by the named section. The range starts at the
// first line carrying the section anchor or its level-1 heading and ends at the
// first later level-1 heading of another section. An anchor comment directly
// above that heading belongs to the next section.
func Locate(lines []string, name string) Range {
	anchor := Anchor(name)
	heading := Heading(name)

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start == -1 {
			if strings.Contains(line, anchor) || (isLevel1(line) && trimmed == heading) {
				start = i
			}
			continue
		}
		if isLevel1(line) && trimmed != heading {
			end := i
			if end-1 > start && anchorRe.MatchString(strings.TrimSpace(lines[end-1])) {
				end--
			}
			return Range{Start: start, End: end}
		}
	}
	if start == -1 {
		return Absent
	}
	return Range{Start: start, End: len(lines)}
}

// Section returns the lines owned by the named section, or nil when absent.
func Section(lines []string, name string) []string {
	r := Locate(lines, name)
	if !r.Found() {
		return nil
	}
	return lines[r.Start:r.End]
}

// Replace splices block into the range owned by name and returns the new
// document lines. When the section is absent, the block is inserted in front
// of the first section of before that exists, or appended at the end of the
// document after a blank separator line. Lines outside the replaced range are
// never modified.
func Replace(lines []string, name string, block []string, before ...string) []string {
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	r := Locate(lines, name)
	if r.Found() {
		out := make([]string, 0, len(lines)-(r.End-r.Start)+len(block))
		out = append(out, lines[:r.Start]...)
		out = append(out, block...)
		return append(out, lines[r.End:]...)
	}

	for _, next := range before {
		nr := Locate(lines, next)
		if !nr.Found() {
			continue
		}
		out := make([]string, 0, len(lines)+len(block))
		out = append(out, lines[:nr.Start]...)
		out = append(out, block...)
		return append(out, lines[nr.Start:]...)
	}

	out := make([]string, 0, len(lines)+len(block)+1)
	out = append(out, lines...)
	if len(out) > 0 && !IsBlank(out[len(out)-1]) {
		out = append(out, "")
	}
	return append(out, block...)
}

// SectionHeader returns the anchor, heading and blank line every serialized
// section starts with.
func SectionHeader(name string) []string {
	return []string{Anchor(name), Heading(name), ""}
}

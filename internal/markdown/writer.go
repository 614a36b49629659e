package markdown

import "fmt"

// Writer accumulates the lines of one serialized section.
type Writer struct {
	lines []string
}

// NewSectionWriter starts a section block with its anchor and heading.
func NewSectionWriter(name string) *Writer {
	return &Writer{lines: SectionHeader(name)}
}

// Line appends a raw line.
func (w *Writer) Line(s string) *Writer {
	w.lines = append(w.lines, s)
	return w
}

// Linef appends a formatted line.
func (w *Writer) Linef(format string, args ...any) *Writer {
	return w.Line(fmt.Sprintf(format, args...))
}

// Field appends "Key: value" unless value is empty.
func (w *Writer) Field(key, value string) *Writer {
	if value == "" {
		return w
	}
	return w.Line(key + ": " + value)
}

// Meta appends "<!-- key: value -->" unless value is empty.
func (w *Writer) Meta(key, value string) *Writer {
	if value == "" {
		return w
	}
	return w.Line(Comment(key, value))
}

// Items appends one "- item" line per entry.
func (w *Writer) Items(items []string) *Writer {
	for _, it := range items {
		w.Line("- " + it)
	}
	return w
}

// Text appends pre-split text lines, skipping blank ones so the text cannot
// terminate the record it belongs to. Heading-like lines are escaped.
func (w *Writer) Text(lines ...string) *Writer {
	for _, l := range lines {
		if !IsBlank(l) {
			w.Line(EscapeText(l))
		}
	}
	return w
}

// Blank appends an empty line.
func (w *Writer) Blank() *Writer { return w.Line("") }

// Lines returns the accumulated block.
func (w *Writer) Lines() []string { return w.lines }

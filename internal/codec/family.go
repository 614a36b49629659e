package codec

import (
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// Family binds an entity type to its document section.
type Family[T any] struct {
	Section string
	Parse   func(lines []string) []T
	Format  func(items []T) []string
	// ID returns a pointer to the id field so callers can read and assign it.
	ID func(*T) *string
}

// notesLines splits multi-line notes for writing.
func notesLines(notes string) []string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil
	}
	return strings.Split(notes, "\n")
}

// writeNotesSub emits a "### Notes" subsection when notes is non-empty.
func writeNotesSub(w *markdown.Writer, title, notes string) {
	lines := notesLines(notes)
	if len(lines) == 0 {
		return
	}
	w.Blank().Line("### " + title).Text(lines...)
}

func floatField(v float64) string { return markdown.FormatFloat(v) }

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return markdown.FormatFloat(*p)
}

func optFloatPtr(value string) *float64 {
	f, ok := markdown.ParseFloat(value)
	if !ok {
		return nil
	}
	return &f
}

// parseEnumField reads an enum value. A missing value takes def; a value
// outside valid is dropped and left unset.
func parseEnumField[T ~string](s string, valid map[T]bool, def T) T {
	if strings.TrimSpace(s) == "" {
		return def
	}
	v, _ := domain.ParseEnum(s, valid, "")
	return v
}

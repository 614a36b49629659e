package codec

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// TimeTrackingSection holds one "## <task id>" record per task.
const TimeTrackingSection = "Time Tracking"

var timeEntryRe = regexp.MustCompile(`^- (\d{4}-\d{2}-\d{2}): ([\d.]+)h(?: by (.+?))?(?: - (.+))?$`)

// ParseTimeLog decodes the Time Tracking section. Lines that do not match the
// entry grammar are skipped.
func ParseTimeLog(lines []string) *domain.TimeLog {
	log := domain.NewTimeLog()
	for _, r := range markdown.ScanRecords(lines, markdown.Schema{Section: TimeTrackingSection}) {
		if _, ok := log.Entries[r.Title]; !ok {
			log.Order = append(log.Order, r.Title)
			log.Entries[r.Title] = nil
		}
		for _, line := range r.Text {
			if e, ok := ParseTimeEntry(line); ok {
				log.Entries[r.Title] = append(log.Entries[r.Title], e)
			}
		}
	}
	return log
}

// ParseTimeEntry decodes "- YYYY-MM-DD: Nh[ by Person][ - description]" with
// an optional trailing id comment.
func ParseTimeEntry(line string) (domain.TimeEntry, bool) {
	rest, id := markdown.StripInlineID(strings.TrimSpace(line))
	m := timeEntryRe.FindStringSubmatch(strings.TrimSpace(rest))
	if m == nil {
		return domain.TimeEntry{}, false
	}
	hours, ok := markdown.ParseFloat(m[2])
	if !ok {
		return domain.TimeEntry{}, false
	}
	return domain.TimeEntry{
		ID:          id,
		Date:        m[1],
		Hours:       hours,
		Person:      strings.TrimSpace(m[3]),
		Description: strings.TrimSpace(m[4]),
	}, true
}

// TimeEntryLine renders e in the form ParseTimeEntry reads.
func TimeEntryLine(e domain.TimeEntry) string {
	line := "- " + e.Date + ": " + markdown.FormatFloat(e.Hours) + "h"
	if e.Person != "" {
		line += " by " + e.Person
	}
	if e.Description != "" {
		line += " - " + e.Description
	}
	return markdown.WithInlineID(line, e.ID)
}

// FormatTimeLog renders the section. Tasks without entries are omitted.
func FormatTimeLog(log *domain.TimeLog) []string {
	w := markdown.NewSectionWriter(TimeTrackingSection)
	if log == nil {
		return w.Lines()
	}
	for _, taskID := range log.Order {
		entries := log.Entries[taskID]
		if len(entries) == 0 {
			continue
		}
		w.Line("## " + taskID)
		for _, e := range entries {
			w.Line(TimeEntryLine(e))
		}
		w.Blank()
	}
	return w.Lines()
}

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTaskRows decodes CSV with a header row. Columns are matched by name in
// any order; unknown columns are ignored and missing ones stay empty.
func ReadTaskRows(r io.Reader) ([]TaskRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["title"]; !ok {
		return nil, fmt.Errorf("csv header has no title column")
	}

	var rows []TaskRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		rows = append(rows, TaskRow{
			ID:          get("id"),
			Title:       get("title"),
			Section:     get("section"),
			Completed:   parseBool(get("completed")),
			Priority:    parseInt(get("priority")),
			Assignee:    get("assignee"),
			DueDate:     get("due_date"),
			Effort:      parseInt(get("effort")),
			Tags:        splitList(get("tags")),
			BlockedBy:   splitList(get("blocked_by")),
			Milestone:   get("milestone"),
			Description: get("description"),
			ParentID:    get("parent_id"),
		})
	}
	return rows, nil
}

// WriteTaskRows encodes rows as CSV under the Columns header. List cells are
// joined with ";".
func WriteTaskRows(w io.Writer, rows []TaskRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.ID, r.Title, r.Section, strconv.FormatBool(r.Completed), formatInt(r.Priority),
			r.Assignee, r.DueDate, formatInt(r.Effort), strings.Join(r.Tags, ";"),
			strings.Join(r.BlockedBy, ";"), r.Milestone, r.Description, r.ParentID,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "x", "1", "done":
		return true
	}
	return false
}

func parseInt(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func formatInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// splitList accepts ";" or "," separated cells.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

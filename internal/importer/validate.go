package importer

import (
	"fmt"
	"time"
)

// ValidateRows checks rows before import and returns every problem found.
// Unknown parent ids are not errors; those rows land at the root.
func ValidateRows(rows []TaskRow) []error {
	var errs []error
	seen := make(map[string]int, len(rows))
	for i, r := range rows {
		label := fmt.Sprintf("row %d", i+1)
		if r.ID != "" {
			label = fmt.Sprintf("row %d (%s)", i+1, r.ID)
			if first, dup := seen[r.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate id, first used in row %d", label, first))
			} else {
				seen[r.ID] = i + 1
			}
		}
		if r.Title == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", label))
		}
		if r.DueDate != "" {
			if _, err := time.Parse("2006-01-02", r.DueDate); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid due_date %q (expected YYYY-MM-DD)", label, r.DueDate))
			}
		}
		if r.Priority != nil && *r.Priority < 0 {
			errs = append(errs, fmt.Errorf("%s: priority must not be negative", label))
		}
		if r.Effort != nil && *r.Effort < 0 {
			errs = append(errs, fmt.Errorf("%s: effort must not be negative", label))
		}
	}
	return errs
}

// Package importer reads and writes flat task rows. A row carries its
// parent id, so a whole board can be exchanged as a CSV sheet or a JSON
// array and rebuilt with tasktree.Build.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TaskRow is one task in the flat exchange format.
type TaskRow struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Section     string   `json:"section,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Effort      *int     `json:"effort,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	BlockedBy   []string `json:"blocked_by,omitempty"`
	Milestone   string   `json:"milestone,omitempty"`
	Description string   `json:"description,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
}

// Columns is the CSV header in file order.
var Columns = []string{
	"id", "title", "section", "completed", "priority", "assignee", "due_date",
	"effort", "tags", "blocked_by", "milestone", "description", "parent_id",
}

// LoadRows reads rows from a .json file or, for any other extension, CSV.
func LoadRows(path string) ([]TaskRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var rows []TaskRow
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		return rows, nil
	}
	return ReadTaskRows(f)
}

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/db"
)

// TaskRow is a mirrored task.
type TaskRow struct {
	ID        string
	ParentID  string
	Section   string
	Title     string
	Completed bool
	Priority  *int
	Assignee  string
	DueDate   string
	Milestone string
	Depth     int
}

// InvoiceRow is a mirrored invoice.
type InvoiceRow struct {
	ID         string
	Number     string
	CustomerID string
	Title      string
	Status     string
	DueDate    string
	Total      float64
	PaidAmount float64
}

// Outstanding is the unpaid part of the total.
func (r InvoiceRow) Outstanding() float64 { return r.Total - r.PaidAmount }

// Hit is one search match.
type Hit struct {
	Kind  string
	ID    string
	Title string
}

// State is the bookkeeping row of the last sync.
type State struct {
	ContentHash string
	SyncedAt    string
	TaskCount   int
}

// Queries reads the index.
type Queries struct {
	db db.DBTX
}

func NewQueries(d db.DBTX) *Queries {
	return &Queries{db: d}
}

func (q *Queries) State(ctx context.Context) (State, error) {
	var s State
	err := q.db.QueryRowContext(ctx, `SELECT content_hash, synced_at, task_count FROM index_state WHERE id = 1`).
		Scan(&s.ContentHash, &s.SyncedAt, &s.TaskCount)
	if err != nil {
		return s, fmt.Errorf("reading index state: %w", err)
	}
	return s, nil
}

// TasksByAssignee lists the tasks of one assignee in board order. Matching
// ignores case.
func (q *Queries) TasksByAssignee(ctx context.Context, assignee string) ([]TaskRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, COALESCE(parent_id, ''), section, title, completed, priority, assignee, due_date, milestone, depth
		 FROM tasks WHERE assignee = ? COLLATE NOCASE ORDER BY seq`, strings.TrimSpace(assignee))
	if err != nil {
		return nil, fmt.Errorf("querying tasks by assignee: %w", err)
	}
	defer rows.Close()

	var out []TaskRow
	for rows.Next() {
		var (
			r        TaskRow
			priority sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.ParentID, &r.Section, &r.Title, &r.Completed, &priority, &r.Assignee, &r.DueDate, &r.Milestone, &r.Depth); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if priority.Valid {
			p := int(priority.Int64)
			r.Priority = &p
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OverdueInvoices lists invoices marked overdue and sent invoices whose due
// date is before today, oldest due date first.
func (q *Queries) OverdueInvoices(ctx context.Context, today string) ([]InvoiceRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, number, customer_id, title, status, due_date, total, paid_amount
		 FROM invoices
		 WHERE status = 'overdue' OR (status = 'sent' AND due_date <> '' AND due_date < ?)
		 ORDER BY due_date, number`, today)
	if err != nil {
		return nil, fmt.Errorf("querying overdue invoices: %w", err)
	}
	defer rows.Close()

	var out []InvoiceRow
	for rows.Next() {
		var r InvoiceRow
		if err := rows.Scan(&r.ID, &r.Number, &r.CustomerID, &r.Title, &r.Status, &r.DueDate, &r.Total, &r.PaidAmount); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const searchSQL = `
SELECT 'task', id, title, seq FROM tasks WHERE title LIKE ?1 ESCAPE '\'
UNION ALL
SELECT 'milestone', id, name, 0 FROM milestones WHERE name LIKE ?1 ESCAPE '\'
UNION ALL
SELECT 'idea', id, title, 0 FROM ideas WHERE title LIKE ?1 ESCAPE '\'
UNION ALL
SELECT 'invoice', id, title, 0 FROM invoices WHERE title LIKE ?1 ESCAPE '\' OR number LIKE ?1 ESCAPE '\'
UNION ALL
SELECT 'deal', id, title, 0 FROM deals WHERE title LIKE ?1 ESCAPE '\'
ORDER BY 1, 4, 3`

// Search matches term as a case-insensitive substring of titles.
func (q *Queries) Search(ctx context.Context, term string) ([]Hit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	rows, err := q.db.QueryContext(ctx, searchSQL, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		var (
			h   Hit
			seq int
		)
		if err := rows.Scan(&h.Kind, &h.ID, &h.Title, &seq); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

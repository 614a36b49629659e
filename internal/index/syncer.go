// Package index mirrors the markdown document into SQLite so listings that
// cut across sections can be answered with queries. The document is always
// the source of truth; the index can be dropped and rebuilt at any time.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/db"
	"github.com/alexanderramin/mdplan/internal/document"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/service"
)

// DocumentReader is the read side of the document store.
type DocumentReader interface {
	Read(ctx context.Context) ([]string, error)
}

// Result describes one sync.
type Result struct {
	ContentHash string
	Skipped     bool
	Tasks       int
	Milestones  int
	Ideas       int
	Invoices    int
	Deals       int
	TimeEntries int
}

// Syncer rebuilds the index from the document. Concurrent Sync calls share
// one run.
type Syncer struct {
	doc    DocumentReader
	uow    db.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

type Option func(*Syncer)

func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

func NewSyncer(doc DocumentReader, uow db.UnitOfWork, opts ...Option) *Syncer {
	s := &Syncer{doc: doc, uow: uow, logger: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sync replaces the mirrored rows when the document changed since the last
// sync.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	return s.run(ctx, false)
}

// Rebuild replaces the mirrored rows unconditionally.
func (s *Syncer) Rebuild(ctx context.Context) (Result, error) {
	return s.run(ctx, true)
}

func (s *Syncer) run(ctx context.Context, force bool) (Result, error) {
	key := "sync"
	if force {
		key = "rebuild"
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.sync(ctx, force)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (s *Syncer) sync(ctx context.Context, force bool) (Result, error) {
	lines, err := s.doc.Read(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading document: %w", err)
	}
	snap := snapshot(lines)
	res := snap.result()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if !force {
			var hash string
			if err := tx.QueryRowContext(ctx, `SELECT content_hash FROM index_state WHERE id = 1`).Scan(&hash); err != nil {
				return fmt.Errorf("reading index state: %w", err)
			}
			if hash == snap.hash {
				res.Skipped = true
				return nil
			}
		}
		return snap.write(ctx, tx, s.now())
	})
	if err != nil {
		return Result{}, fmt.Errorf("syncing index: %w", err)
	}
	s.logger.Debug("index sync finished", "hash", res.ContentHash[:12], "skipped", res.Skipped, "tasks", res.Tasks)
	return res, nil
}

// docSnapshot is everything the index mirrors, decoded from one read.
type docSnapshot struct {
	hash       string
	tasks      []*domain.Task
	milestones []domain.MilestoneProgress
	ideas      []domain.Idea
	invoices   []domain.Invoice
	deals      []domain.Deal
	timeLog    *domain.TimeLog
}

func snapshot(lines []string) docSnapshot {
	tasks := codec.ParseBoard(lines).Tasks
	return docSnapshot{
		hash:       document.ContentHash(strings.Join(lines, "\n")),
		tasks:      tasks,
		milestones: service.WithProgress(service.MergeMilestones(codec.Milestones.Parse(lines), tasks), tasks),
		ideas:      codec.Ideas.Parse(lines),
		invoices:   codec.Invoices.Parse(lines),
		deals:      codec.Deals.Parse(lines),
		timeLog:    codec.ParseTimeLog(lines),
	}
}

func (d docSnapshot) result() Result {
	n := 0
	domain.Walk(d.tasks, func(*domain.Task, *domain.Task) bool { n++; return true })
	return Result{
		ContentHash: d.hash,
		Tasks:       n,
		Milestones:  len(d.milestones),
		Ideas:       len(d.ideas),
		Invoices:    len(d.invoices),
		Deals:       len(d.deals),
		TimeEntries: len(d.timeLog.All()),
	}
}

func (d docSnapshot) write(ctx context.Context, tx db.DBTX, now time.Time) error {
	for _, table := range db.IndexTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	taskCount, err := writeTasks(ctx, tx, d.tasks)
	if err != nil {
		return err
	}
	for _, m := range d.milestones {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO milestones (id, name, target, status, task_count, completed_count, progress) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.Name, m.Target, string(domain.CoalesceStatus(m.Status, domain.MilestoneOpen)), m.TaskCount, m.CompletedCount, m.Progress); err != nil {
			return fmt.Errorf("inserting milestone %s: %w", m.ID, err)
		}
	}
	for _, i := range d.ideas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ideas (id, title, status, category, created) VALUES (?, ?, ?, ?, ?)`,
			i.ID, i.Title, string(domain.CoalesceStatus(i.Status, domain.IdeaNew)), i.Category, i.Created); err != nil {
			return fmt.Errorf("inserting idea %s: %w", i.ID, err)
		}
	}
	for _, inv := range d.invoices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoices (id, number, customer_id, title, status, due_date, total, paid_amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.Number, inv.CustomerID, inv.Title, string(inv.Status), inv.DueDate, inv.Total, inv.PaidAmount); err != nil {
			return fmt.Errorf("inserting invoice %s: %w", inv.ID, err)
		}
	}
	for _, deal := range d.deals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deals (id, title, company_id, stage, value, probability, expected_close) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			deal.ID, deal.Title, deal.CompanyID, string(deal.Stage), deal.Value, deal.Probability, deal.ExpectedClose); err != nil {
			return fmt.Errorf("inserting deal %s: %w", deal.ID, err)
		}
	}
	for _, e := range d.timeLog.All() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (id, task_id, date, hours, person, description) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.TaskID, e.Date, e.Hours, e.Person, e.Description); err != nil {
			return fmt.Errorf("inserting time entry %s: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE index_state SET content_hash = ?, synced_at = ?, task_count = ? WHERE id = 1`,
		d.hash, now.UTC().Format(time.RFC3339), taskCount); err != nil {
		return fmt.Errorf("updating index state: %w", err)
	}
	return nil
}

// writeTasks inserts the tree in pre-order and returns the row count.
func writeTasks(ctx context.Context, tx db.DBTX, tasks []*domain.Task) (int, error) {
	seq := 0
	var err error
	var visit func(t *domain.Task, parentID string, depth int)
	visit = func(t *domain.Task, parentID string, depth int) {
		if err != nil {
			return
		}
		seq++
		c := t.Config
		var parent any
		if parentID != "" {
			parent = parentID
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (seq, id, parent_id, section, title, completed, priority, assignee, due_date, effort, milestone, tags, depth)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, t.ID, parent, t.Section, t.Title, boolInt(t.Completed), intOrNil(c.Priority), c.Assignee, c.DueDate,
			intOrNil(c.Effort), c.Milestone, strings.Join(c.Tags, ","), depth)
		if err != nil {
			err = fmt.Errorf("inserting task %s: %w", t.ID, err)
			return
		}
		for _, child := range t.Children {
			visit(child, t.ID, depth+1)
		}
	}
	for _, t := range tasks {
		visit(t, "", 0)
	}
	return seq, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

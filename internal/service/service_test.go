package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/scheduler"
	"github.com/alexanderramin/mdplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

// fixedClock is Monday 2025-03-10.
func fixedClock() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

const boardDoc = `<!-- Board -->
# Board

## Todo

- [ ] (1) Design landing page {priority: 1; effort: 8; milestone: Beta}
  - [ ] (2) Pick palette {effort: 2}
- [ ] (3) Write docs {priority: 2; effort: 5}

## Done

- [x] (4) Kickoff {milestone: Beta}
`

func setupRepos(t *testing.T, content string) *repository.Repos {
	t.Helper()
	store := testutil.NewTestDocument(t, content)
	return repository.NewRepos(store, testutil.SeqIDs("id"), nil)
}

func TestTaskService_CreateAndNotFound(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	obs := &recordingObserver{}
	svc := NewTaskService(repos.Tasks, obs)

	child, err := svc.Create(ctx, &domain.Task{Title: "Check contrast"}, "2")
	require.NoError(t, err)
	assert.Equal(t, "5", child.ID)

	_, err = svc.Create(ctx, &domain.Task{Title: "Orphan"}, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Create(ctx, &domain.Task{Title: " "}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Delete(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	toggled, err := svc.Toggle(ctx, "3")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	require.NoError(t, svc.Move(ctx, "3", "Done"))
	moved, err := svc.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Done", moved.Section)

	assert.Equal(t, []string{"task-create", "task-create", "task-create", "task-delete", "task-update", "task-move"}, obs.names())
	assert.False(t, obs.events[1].Success)
}

func TestMilestoneService_ListMergesTaskReferences(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewMilestoneService(repos.Milestones, repos.Tasks)

	_, err := svc.Create(ctx, domain.Milestone{Name: "GA", Target: "2025-06-01"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "GA", list[0].Name)
	assert.Equal(t, 0, list[0].Progress)
	assert.Equal(t, "beta", list[1].ID)
	assert.Equal(t, 2, list[1].TaskCount)
	assert.Equal(t, 50, list[1].Progress)

	p, err := svc.Progress(ctx, "Beta")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedCount)

	_, err = svc.Progress(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdeaService_LinkAndBacklinks(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, "")
	svc := NewIdeaService(repos.Ideas, fixedClock)

	a, err := svc.Create(ctx, domain.Idea{Title: "Referral program"})
	require.NoError(t, err)
	assert.Equal(t, domain.IdeaNew, a.Status)
	assert.Equal(t, "2025-03-10", a.Created)
	b, err := svc.Create(ctx, domain.Idea{Title: "Partner portal"})
	require.NoError(t, err)

	require.NoError(t, svc.Link(ctx, a.ID, b.ID))
	require.NoError(t, svc.Link(ctx, a.ID, b.ID))
	assert.ErrorIs(t, svc.Link(ctx, a.ID, "missing"), domain.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{b.ID}, list[0].Links)
	assert.Equal(t, []string{a.ID}, list[1].Backlinks)
}

func TestCapacityService_SuggestAndApply(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewCapacityService(repos, fixedClock, testutil.SeqIDs("c"))

	plan, err := svc.Create(ctx, domain.CapacityPlan{Title: "Q1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", plan.Date)

	ana, err := svc.AddMember(ctx, plan.ID, domain.TeamMember{Name: "Ana", HoursPerDay: 2})
	require.NoError(t, err)
	bo, err := svc.AddMember(ctx, plan.ID, domain.TeamMember{Name: "Bo", HoursPerDay: 4})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, plan.ID, domain.WeeklyAllocation{MemberID: "ghost", AllocatedHours: 4})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	alloc, err := svc.Allocate(ctx, plan.ID, domain.WeeklyAllocation{MemberID: ana.ID, WeekStart: "2025-03-12", AllocatedHours: 10})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", alloc.WeekStart)

	util, err := svc.Utilization(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, util, 2)
	assert.Equal(t, 100, util[0].Percent)

	// Ana is fully booked, so Bo (20h) takes task 1 (8h), then 3 (5h), then 2 (2h).
	sugs, err := svc.SuggestAssignments(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, sugs, 3)
	assert.Equal(t, "1", sugs[0].TaskID)
	assert.Equal(t, bo.ID, sugs[0].MemberID)
	assert.Equal(t, "3", sugs[1].TaskID)
	assert.Equal(t, "2", sugs[2].TaskID)

	applied, err := svc.ApplyAssignments(ctx, plan.ID, sugs[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	task, ok, err := repos.Tasks.FindByID(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bo", task.Config.Assignee)

	got, err := svc.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Allocations, 2)
	assert.Equal(t, domain.TargetTask, got.Allocations[1].TargetType)
	assert.Equal(t, "1", got.Allocations[1].TargetID)
}

func TestCapacityService_ApplySkipsUnknownTasks(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewCapacityService(repos, fixedClock, testutil.SeqIDs("c"))

	plan, err := svc.Create(ctx, domain.CapacityPlan{Title: "Q1"})
	require.NoError(t, err)
	bo, err := svc.AddMember(ctx, plan.ID, domain.TeamMember{Name: "Bo"})
	require.NoError(t, err)

	applied, err := svc.ApplyAssignments(ctx, plan.ID, []scheduler.Suggestion{
		{TaskID: "404", MemberID: bo.ID, WeekStart: "2025-03-10", Hours: 3},
		{TaskID: "3", MemberID: "ghost", WeekStart: "2025-03-10", Hours: 3},
		{TaskID: "3", MemberID: bo.ID, WeekStart: "2025-03-10", Hours: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	got, err := svc.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Allocations, 1)
	assert.Equal(t, "3", got.Allocations[0].TargetID)

	_, err = svc.ApplyAssignments(ctx, "missing", []scheduler.Suggestion{{TaskID: "1", MemberID: bo.ID, Hours: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	task, ok, err := repos.Tasks.FindByID(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, "Bo", task.Config.Assignee)
}

func TestBillingService_QuoteToPaidInvoice(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	customers := NewRecordService(repos.Customers, "customer", PrepareCustomer(fixedClock))
	svc := NewBillingService(repos, fixedClock, testutil.SeqIDs("b"))

	_, err := svc.CreateQuote(ctx, domain.Quote{Title: "Site", CustomerID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cust, err := customers.Create(ctx, domain.Customer{Name: "Globex"})
	require.NoError(t, err)

	q, err := svc.CreateQuote(ctx, domain.Quote{
		Title:      "Site",
		CustomerID: cust.ID,
		TaxRate:    domain.Float64Ptr(10),
		LineItems:  []domain.LineItem{{Description: "Design", Quantity: 1, Rate: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Q-2025-001", q.Number)

	q, err = svc.AddQuoteItem(ctx, q.ID, domain.LineItem{Description: "Copy", Quantity: 2, Rate: 25})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, q.Subtotal, 1e-9)
	assert.InDelta(t, 15.0, q.Tax, 1e-9)
	assert.InDelta(t, 165.0, q.Total, 1e-9)

	_, err = svc.QuoteToInvoice(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	q, err = svc.SetQuoteStatus(ctx, q.ID, domain.QuoteAccepted)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", q.AcceptedAt)

	inv, err := svc.QuoteToInvoice(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-001", inv.Number)
	assert.Equal(t, q.ID, inv.QuoteID)
	assert.InDelta(t, 165.0, inv.Total, 1e-9)

	inv, err = svc.RecordPayment(ctx, domain.Payment{InvoiceID: inv.ID, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceDraft, inv.Status)
	inv, err = svc.RecordPayment(ctx, domain.Payment{InvoiceID: inv.ID, Amount: 70})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.Equal(t, "2025-03-10", inv.PaidAt)

	payments, err := repos.Payments.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	_, err = svc.RecordPayment(ctx, domain.Payment{InvoiceID: "missing", Amount: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	payments, err = repos.Payments.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 2, "failed payment must not be stored")

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.PaidInvoices)
	assert.Equal(t, 1, sum.AcceptedQuotes)
	assert.InDelta(t, 170.0, sum.TotalPaid, 1e-9)
}

func TestBillingService_GenerateInvoice(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewBillingService(repos, fixedClock, testutil.SeqIDs("g"))
	times := NewTimeService(repos.TimeLog, repos.Tasks, fixedClock)

	cust, err := repos.Customers.Create(ctx, domain.Customer{Name: "Initech"})
	require.NoError(t, err)
	_, err = repos.Rates.Create(ctx, domain.BillingRate{Name: "Standard", HourlyRate: 80, IsDefault: true})
	require.NoError(t, err)

	_, err = times.Log(ctx, "1", domain.TimeEntry{Hours: 3, Person: "Ana"})
	require.NoError(t, err)
	_, err = times.Log(ctx, "1", domain.TimeEntry{Date: "2025-01-02", Hours: 1})
	require.NoError(t, err)
	_, err = times.Log(ctx, "99", domain.TimeEntry{Hours: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GenerateInvoice(ctx, cust.ID, "", billing.GenerateRequest{TaskIDs: []string{"3"}})
	assert.ErrorIs(t, err, billing.ErrNoTimeEntries)

	inv, err := svc.GenerateInvoice(ctx, cust.ID, "", billing.GenerateRequest{TaskIDs: []string{"1", "3"}, StartDate: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "Time Entry Invoice - 2025-03-10", inv.Title)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "Design landing page", inv.LineItems[0].Description)
	assert.Equal(t, 3.0, inv.LineItems[0].Quantity)
	assert.Equal(t, 240.0, inv.Total)
}

func TestStrategyService_AddLevel(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, "")
	svc := NewStrategyService(repos.Strategy, fixedClock, testutil.SeqIDs("s"))

	b, err := svc.Create(ctx, domain.StrategicLevelsBuilder{Title: "2025 plan"})
	require.NoError(t, err)

	vision, err := svc.AddLevel(ctx, b.ID, domain.StrategicLevel{Title: "Best tool", Level: domain.LevelVision})
	require.NoError(t, err)
	goal, err := svc.AddLevel(ctx, b.ID, domain.StrategicLevel{Title: "Grow", Level: domain.LevelGoals, ParentID: vision.ID})
	require.NoError(t, err)

	_, err = svc.AddLevel(ctx, b.ID, domain.StrategicLevel{Title: "Upside down", Level: domain.LevelVision, ParentID: goal.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.AddLevel(ctx, b.ID, domain.StrategicLevel{Title: "Lost", Level: domain.LevelTactics, ParentID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Levels, 2)
	assert.Equal(t, vision.ID, got.Levels[1].ParentID)
}

func TestProjectService_UpdateStampsDate(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewProjectService(repos.ProjectConfig, fixedClock)

	cfg, err := svc.Update(ctx, func(c *domain.ProjectConfig) {
		c.StartDate = "2025-01-01"
		c.Tags = append(c.Tags, "web")
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", cfg.LastUpdated)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, got.Tags)
}

func TestImportService_FileAndExport(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t, boardDoc)
	svc := NewImportService(repos.Tasks)

	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,title,section,parent_id\n1,Imported,Todo,\n2,Nested,Todo,1\n3,Orphan,Done,77\n"), 0o644))

	res, err := svc.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Roots)
	assert.Equal(t, 3, res.TaskCount)

	rows, err := svc.ExportRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
	last := rows[len(rows)-1]
	assert.Equal(t, "Orphan", last.Task.Title)
	assert.Empty(t, last.ParentID)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("id,title\n1,\n"), 0o644))
	_, err = svc.ImportFile(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

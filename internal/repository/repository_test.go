package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedDoc = `# Acme Relaunch

Intro paragraph kept verbatim.

<!-- Board -->
# Board

## Todo

- [ ] (1) Write copy {priority: 1}
  - [ ] (2) Draft headline

## Done

- [x] (3) Kickoff

# Appendix

Hand-written notes.
`

func newRepos(t *testing.T, content string) (*Repos, func() string) {
	t.Helper()
	store := testutil.NewTestDocument(t, content)
	read := func() string {
		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		return string(data)
	}
	return NewRepos(store, testutil.SeqIDs("id"), nil), read
}

func TestCollection_CreateInsertsSectionBeforeBoard(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)

	idea, err := repos.Ideas.Create(ctx, domain.Idea{Title: "Referral program"})
	require.NoError(t, err)
	assert.Equal(t, "id1", idea.ID)

	doc := read()
	assert.Less(t, strings.Index(doc, "# Ideas"), strings.Index(doc, "# Board"))
	assert.Contains(t, doc, "Intro paragraph kept verbatim.")
	assert.Contains(t, doc, "# Appendix\n\nHand-written notes.")

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Draft headline", tasks[0].Children[0].Title)
}

func TestCollection_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestDocument(t, "")
	calls := 0
	// Repeats the taken id twice before yielding a fresh one.
	gen := func() string {
		calls++
		if calls <= 3 {
			return "dup"
		}
		return "fresh"
	}
	ideas := NewCollection(store, codec.Ideas, gen)

	first, err := ideas.Create(ctx, domain.Idea{Title: "One"})
	require.NoError(t, err)
	second, err := ideas.Create(ctx, domain.Idea{Title: "Two"})
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)

	_, err = ideas.Create(ctx, domain.Idea{ID: "dup", Title: "Three"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollection_UpdateAndDeleteReportFound(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, "")

	c, err := repos.Customers.Create(ctx, domain.Customer{Name: "Globex"})
	require.NoError(t, err)

	found, err := repos.Customers.Update(ctx, c.ID, func(v *domain.Customer) { v.Email = "ap@globex.test" })
	require.NoError(t, err)
	assert.True(t, found)

	got, ok, err := repos.Customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ap@globex.test", got.Email)

	found, err = repos.Customers.Update(ctx, "missing", func(*domain.Customer) {})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repos.Customers.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repos.Customers.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollection_MilestoneIDIsSlug(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, "")

	m, err := repos.Milestones.Create(ctx, domain.Milestone{Name: "Beta Release", Target: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "beta-release", m.ID)
}

func TestCollection_OtherSectionsUntouched(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)
	_, err := repos.Retros.Create(ctx, domain.Retrospective{Title: "Sprint 1", Continue: []string{"Shipping weekly"}})
	require.NoError(t, err)
	before := read()

	_, err = repos.Companies.Create(ctx, domain.Company{Name: "Initech"})
	require.NoError(t, err)
	after := read()

	retroStart := strings.Index(before, "<!-- Retrospectives -->")
	require.GreaterOrEqual(t, retroStart, 0)
	boardStart := strings.Index(before, "<!-- Board -->")
	assert.Contains(t, after, before[retroStart:boardStart])
	assert.True(t, strings.HasSuffix(after, before[boardStart:]))
}

func TestTaskRepo_CreateAssignsNextNumericID(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, seedDoc)

	created, err := repos.Tasks.Create(ctx, &domain.Task{Title: "Launch", Section: "Done"})
	require.NoError(t, err)
	assert.Equal(t, "4", created.ID)

	_, err = repos.Tasks.Create(ctx, &domain.Task{ID: "2", Title: "Clash"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = repos.Tasks.Create(ctx, &domain.Task{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskRepo_AddChildAndFind(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, seedDoc)

	child, found, err := repos.Tasks.AddChild(ctx, "2", &domain.Task{Title: "Pick font"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Todo", child.Section)

	got, ok, err := repos.Tasks.FindByID(ctx, child.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pick font", got.Title)

	_, found, err = repos.Tasks.AddChild(ctx, "99", &domain.Task{Title: "Orphan"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTaskRepo_UpdateMoveDelete(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)

	found, err := repos.Tasks.Update(ctx, "1", func(t *domain.Task) { t.Completed = true })
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, read(), "- [x] (1) Write copy {priority: 1}")

	found, err = repos.Tasks.Move(ctx, "2", "Done")
	require.NoError(t, err)
	assert.True(t, found)
	moved, _, err := repos.Tasks.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Done", moved.Section)
	parent, _, err := repos.Tasks.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, parent.Children)

	found, err = repos.Tasks.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repos.Tasks.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Contains(t, read(), "# Appendix")
}

func TestTaskRepo_AppendMarkdownRenumbersCollisions(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, seedDoc)

	added, err := repos.Tasks.AppendMarkdown(ctx, "Review", "- [ ] (1) Proofread\n  - [ ] Fix typos {blocked_by: 1}\n- [ ] Publish")
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "4", added[0].ID)
	assert.Equal(t, "5", added[0].Children[0].ID)
	assert.Equal(t, []string{"4"}, added[0].Children[0].Config.BlockedBy)
	assert.Equal(t, "6", added[1].ID)

	b, err := repos.Tasks.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Todo", "Done", "Review"}, b.Columns)

	_, err = repos.Tasks.AppendMarkdown(ctx, "Review", "no tasks here")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskRepo_AppendKeepsBatchIDsUnique(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, seedDoc)

	added, err := repos.Tasks.AppendMarkdown(ctx, "Todo", "- [ ] (50) A\n- [ ] (50) B\n  - [ ] (2) C")
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "50", added[0].ID)
	assert.Equal(t, "51", added[1].ID)
	assert.Equal(t, "52", added[1].Children[0].ID)

	imported, err := repos.Tasks.AppendTasks(ctx, []*domain.Task{
		{ID: "7", Title: "X", Section: "Done"},
		{ID: "7", Title: "Y", Section: "Done"},
	})
	require.NoError(t, err)
	assert.Equal(t, "7", imported[0].ID)
	assert.Equal(t, "53", imported[1].ID)

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	seen := map[string]bool{}
	domain.Walk(tasks, func(task, _ *domain.Task) bool {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
		return true
	})
	assert.Len(t, seen, 8)
}

func TestTaskRepo_AppendMarkdownKeepsBoardProse(t *testing.T) {
	ctx := context.Background()
	doc := strings.Replace(seedDoc, "# Board\n\n", "# Board\n\nSprint goal: ship the beta.\n\n", 1)
	repos, read := newRepos(t, doc)

	added, err := repos.Tasks.AppendMarkdown(ctx, "Todo", "- [ ] Two")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "4", added[0].ID)

	got := read()
	assert.Contains(t, got, "Sprint goal: ship the beta.")
	assert.Contains(t, got, "  - [ ] (2) Draft headline\n\n- [ ] (4) Two\n\n## Done\n")
	assert.Contains(t, got, "# Appendix\n\nHand-written notes.\n")

	b, err := repos.Tasks.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Todo", "Done"}, b.Columns)
	assert.Equal(t, "Todo", b.Tasks[1].Section)
}

func TestTaskRepo_HeadingLikeDescriptionKeepsLaterColumns(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t, seedDoc)

	_, err := repos.Tasks.Create(ctx, &domain.Task{Title: "Spec", Section: "Todo", Description: []string{"# Background", "why"}})
	require.NoError(t, err)
	_, err = repos.Tasks.Create(ctx, &domain.Task{Title: "Next", Section: "Todo"})
	require.NoError(t, err)

	b, err := repos.Tasks.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Todo", "Done"}, b.Columns)
	require.Len(t, b.Tasks, 4)
	assert.Equal(t, []string{"# Background", "why"}, b.Tasks[1].Description)
	assert.Equal(t, "Next", b.Tasks[2].Title)
	assert.Equal(t, "Kickoff", b.Tasks[3].Title)
}

func TestTaskRepo_EmptyDocumentGetsDefaultColumns(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, "")
	_, err := repos.Tasks.Create(ctx, &domain.Task{Title: "First"})
	require.NoError(t, err)
	doc := read()
	assert.Contains(t, doc, "## Ideas\n\n- [ ] (1) First")
	assert.Contains(t, doc, "## Done")
}

func TestTimeLogRepo_AddDelete(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)

	e, err := repos.TimeLog.Add(ctx, "1", domain.TimeEntry{Date: "2025-01-06", Hours: 2.5, Person: "Ana", Description: "copy"})
	require.NoError(t, err)
	assert.Equal(t, "id1", e.ID)
	assert.Less(t, strings.Index(read(), "# Time Tracking"), strings.Index(read(), "# Board"))

	log, err := repos.TimeLog.Read(ctx)
	require.NoError(t, err)
	require.Len(t, log.For("1"), 1)
	assert.Equal(t, 2.5, log.For("1")[0].Hours)

	_, err = repos.TimeLog.Add(ctx, "1", domain.TimeEntry{Date: "2025-01-06"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	found, err := repos.TimeLog.Delete(ctx, "1", e.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repos.TimeLog.Delete(ctx, "1", e.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProjectConfigRepo_SavedFirst(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)

	err := repos.ProjectConfig.Save(ctx, domain.ProjectConfig{StartDate: "2025-01-01", WorkingDaysPerWeek: 5, Assignees: []string{"bo", "ana", "bo"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(read(), "<!-- Configurations -->"))

	cfg, err := repos.ProjectConfig.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", cfg.StartDate)
	assert.Equal(t, []string{"ana", "bo"}, cfg.Assignees)
}

func TestRepos_ApplyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repos, read := newRepos(t, seedDoc)
	companies := repos.Companies.Edit(func(items []domain.Company) ([]domain.Company, error) {
		return append(items, domain.Company{ID: "c1", Name: "Initech"}), nil
	})
	failing := repos.Deals.Edit(func([]domain.Deal) ([]domain.Deal, error) {
		return nil, domain.ErrInvalidInput
	})

	err := repos.Apply(ctx, companies, failing)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, seedDoc, read())

	deals := repos.Deals.Edit(func(items []domain.Deal) ([]domain.Deal, error) {
		return append(items, domain.Deal{ID: "d1", Title: "Pilot", CompanyID: "c1", Stage: domain.StageLead}), nil
	})
	require.NoError(t, repos.Apply(ctx, companies, deals))
	doc := read()
	assert.Contains(t, doc, "# Companies")
	assert.Contains(t, doc, "# Deals")
}

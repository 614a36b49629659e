package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneProgress(t *testing.T) {
	tasks := []*domain.Task{
		testutil.NewTestTask("a", testutil.WithMilestone("Beta"), testutil.WithCompleted(), testutil.WithChildren(
			testutil.NewTestTask("a1", testutil.WithMilestone("Beta")),
			testutil.NewTestTask("a2", testutil.WithMilestone("GA"), testutil.WithCompleted()),
		)),
		testutil.NewTestTask("b", testutil.WithMilestone("Beta"), testutil.WithCompleted()),
	}

	tests := []struct {
		name      string
		milestone string
		linked    int
		completed int
		progress  int
	}{
		{"nested tasks count", "Beta", 3, 2, 67},
		{"all completed", "GA", 1, 1, 100},
		{"nothing linked", "Launch", 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			linked, completed, progress := MilestoneProgress(tasks, tc.milestone)
			assert.Equal(t, tc.linked, linked)
			assert.Equal(t, tc.completed, completed)
			assert.Equal(t, tc.progress, progress)
		})
	}
}

func TestMergeMilestones(t *testing.T) {
	section := []domain.Milestone{{ID: "beta", Name: "Beta", Status: domain.MilestoneOpen}}
	tasks := []*domain.Task{
		testutil.NewTestTask("a", testutil.WithMilestone("Beta")),
		testutil.NewTestTask("b", testutil.WithMilestone("Launch Day"), testutil.WithCompleted()),
		testutil.NewTestTask("c", testutil.WithMilestone("Alpha")),
	}

	got := MergeMilestones(section, tasks)
	require.Len(t, got, 3)
	assert.Equal(t, "Beta", got[0].Name)
	assert.Equal(t, domain.Milestone{ID: "alpha", Name: "Alpha", Status: domain.MilestoneOpen}, got[1])
	assert.Equal(t, domain.Milestone{ID: "launch-day", Name: "Launch Day", Status: domain.MilestoneCompleted}, got[2])
}

func TestBacklinks_Symmetric(t *testing.T) {
	ideas := []domain.Idea{
		{ID: "a", Links: []string{"b", "c"}},
		{ID: "b", Links: []string{"a"}},
		{ID: "c", Links: []string{"c", "missing"}},
	}
	got := Backlinks(ideas)

	byID := map[string][]string{}
	for _, i := range got {
		byID[i.ID] = i.Backlinks
	}
	for _, idea := range ideas {
		for _, link := range idea.Links {
			if _, ok := byID[link]; ok {
				assert.Contains(t, byID[link], idea.ID, "%s links %s", idea.ID, link)
			}
		}
	}
	assert.Equal(t, []string{"b"}, byID["a"])
	assert.NotContains(t, byID["b"], "b")
	assert.Equal(t, []string{"a", "c"}, byID["c"])
}

func TestSummarizeCRM(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deals := []domain.Deal{
		{Stage: domain.StageLead, Value: 1000, Probability: 50},
		{Stage: domain.StageProposal, Value: 2000, Probability: 25},
		{Stage: domain.StageWon, Value: 3000, Probability: 100},
		{Stage: domain.StageLost, Value: 400},
	}
	interactions := []domain.Interaction{{Date: "2025-03-09"}, {Date: "2025-03-03"}, {Date: "2025-02-01"}}

	got := SummarizeCRM([]domain.Company{{}, {}}, []domain.Contact{{}}, deals, interactions, now)
	assert.Equal(t, 2, got.TotalCompanies)
	assert.Equal(t, 1, got.TotalContacts)
	assert.Equal(t, 4, got.TotalDeals)
	assert.InDelta(t, 1000.0, got.PipelineValue, 1e-9)
	assert.Equal(t, 3000.0, got.WonValue)
	assert.Equal(t, 400.0, got.LostValue)
	assert.Equal(t, domain.StageTotals{Count: 1, Value: 2000}, got.DealsByStage[domain.StageProposal])
	assert.Equal(t, domain.StageTotals{}, got.DealsByStage[domain.StageNegotiation])
	assert.Equal(t, 2, got.RecentInteractions)
}

package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(id, name string, hoursPerDay float64, days int) domain.TeamMember {
	return domain.TeamMember{ID: id, Name: name, HoursPerDay: hoursPerDay, WorkingDays: domain.DefaultWorkingDays[:days]}
}

func TestUtilization_RoundsPercent(t *testing.T) {
	plan := domain.CapacityPlan{
		TeamMembers: []domain.TeamMember{member("m1", "Ana", 8, 5)},
		Allocations: []domain.WeeklyAllocation{
			{MemberID: "m1", WeekStart: "2025-01-06", AllocatedHours: 10},
			{MemberID: "m1", WeekStart: "2025-01-06", AllocatedHours: 15},
			{MemberID: "other", WeekStart: "2025-01-06", AllocatedHours: 99},
		},
	}
	log := domain.NewTimeLog()
	log.Add("1", domain.TimeEntry{Hours: 3, Person: "Ana"})
	log.Add("2", domain.TimeEntry{Hours: 2, Person: "m1"})
	log.Add("2", domain.TimeEntry{Hours: 7, Person: "Bo"})

	got := Utilization(plan, log)
	require.Len(t, got, 1)
	assert.Equal(t, 40.0, got[0].WeeklyCapacity)
	assert.Equal(t, 25.0, got[0].TotalAllocated)
	assert.Equal(t, map[string]float64{"2025-01-06": 25}, got[0].AllocatedByWeek)
	assert.Equal(t, 5.0, got[0].ActualHours)
	assert.Equal(t, 63, got[0].Percent)
}

func TestUtilization_ZeroCapacity(t *testing.T) {
	plan := domain.CapacityPlan{
		TeamMembers: []domain.TeamMember{{ID: "m1", Name: "Ana"}},
		Allocations: []domain.WeeklyAllocation{{MemberID: "m1", WeekStart: "2025-01-06", AllocatedHours: 4}},
	}
	got := Utilization(plan, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Percent)
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2025-01-06", "2025-01-06"}, // Monday
		{"2025-01-08", "2025-01-06"},
		{"2025-01-12", "2025-01-06"}, // Sunday
		{"2025-01-13", "2025-01-13"},
	}
	for _, tc := range cases {
		t.Run(tc.day, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tc.day)
			require.NoError(t, err)
			assert.Equal(t, tc.want, WeekStart(d))
		})
	}
}

func TestSuggestAssignments_LargestSufficientCapacity(t *testing.T) {
	week := "2025-01-06"
	plan := domain.CapacityPlan{
		TeamMembers: []domain.TeamMember{member("a", "Ana", 2, 5), member("b", "Bo", 4, 5)},
	}
	tasks := []*domain.Task{
		testutil.NewTestTask("Second", testutil.WithTaskID("t2"), testutil.WithPriority(2), testutil.WithEffort(5)),
		testutil.NewTestTask("First", testutil.WithTaskID("t1"), testutil.WithPriority(1), testutil.WithEffort(8)),
	}

	got := SuggestAssignments(tasks, plan, week)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].TaskID)
	assert.Equal(t, "b", got[0].MemberID)
	assert.Equal(t, 8.0, got[0].Hours)
	// Bo has 12 left and Ana 10, so the second task also goes to Bo.
	assert.Equal(t, "t2", got[1].TaskID)
	assert.Equal(t, "b", got[1].MemberID)
	assert.Equal(t, week, got[1].WeekStart)
}

func TestSuggestAssignments_SkipsAssignedCompletedAndOversized(t *testing.T) {
	week := "2025-01-06"
	plan := domain.CapacityPlan{
		TeamMembers: []domain.TeamMember{member("a", "Ana", 8, 5)},
		Allocations: []domain.WeeklyAllocation{
			{MemberID: "a", WeekStart: week, AllocatedHours: 30},
			{MemberID: "a", WeekStart: "2024-12-30", AllocatedHours: 40},
		},
	}
	tasks := []*domain.Task{
		testutil.NewTestTask("Taken", testutil.WithAssignee("Bo")),
		testutil.NewTestTask("Done", testutil.WithCompleted()),
		testutil.NewTestTask("Huge", testutil.WithTaskID("huge"), testutil.WithEffort(20)),
		testutil.NewTestTask("Parent", testutil.WithAssignee("Bo"), testutil.WithChildren(
			testutil.NewTestTask("Nested", testutil.WithTaskID("nested")),
		)),
	}

	got := SuggestAssignments(tasks, plan, week)
	require.Len(t, got, 1)
	assert.Equal(t, "nested", got[0].TaskID)
	assert.Equal(t, float64(DefaultEffortHours), got[0].Hours)
}

func TestAllocations_FromSuggestions(t *testing.T) {
	plan := domain.CapacityPlan{
		TeamMembers: []domain.TeamMember{member("a", "Ana", 8, 5)},
		Allocations: []domain.WeeklyAllocation{{ID: "al1"}},
	}
	got := Allocations(plan, []Suggestion{
		{TaskID: "7", MemberID: "a", Hours: 8, WeekStart: "2025-01-06"},
		{TaskID: "8", MemberID: "ghost", Hours: 8, WeekStart: "2025-01-06"},
	}, testutil.SeqIDs("al"))
	require.Len(t, got, 1)
	assert.Equal(t, "al2", got[0].ID)
	assert.Equal(t, domain.TargetTask, got[0].TargetType)
	assert.Equal(t, "7", got[0].TargetID)
}

// Assignments never overbook a member and always follow priority order.
func TestSuggestAssignments_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	week := "2025-01-06"

	for trial := 0; trial < 200; trial++ {
		var plan domain.CapacityPlan
		for i := 0; i < rng.Intn(4)+1; i++ {
			plan.TeamMembers = append(plan.TeamMembers, member(string(rune('a'+i)), "M", float64(rng.Intn(8)+1), rng.Intn(5)+1))
			if rng.Intn(2) == 0 {
				plan.Allocations = append(plan.Allocations, domain.WeeklyAllocation{
					MemberID: string(rune('a' + i)), WeekStart: week, AllocatedHours: float64(rng.Intn(10)),
				})
			}
		}
		var tasks []*domain.Task
		for i := 0; i < rng.Intn(10)+1; i++ {
			opts := []testutil.TaskOption{testutil.WithEffort(rng.Intn(12) + 1)}
			if rng.Intn(3) > 0 {
				opts = append(opts, testutil.WithPriority(rng.Intn(5)+1))
			}
			tasks = append(tasks, testutil.NewTestTask("Task", opts...))
		}

		start := RemainingCapacity(plan, week)
		used := map[string]float64{}
		byID := map[string]*domain.Task{}
		for _, tk := range tasks {
			byID[tk.ID] = tk
		}
		last := 0
		for _, s := range SuggestAssignments(tasks, plan, week) {
			used[s.MemberID] += s.Hours
			p := priorityOf(byID[s.TaskID])
			assert.GreaterOrEqual(t, p, last, "trial %d: priority order", trial)
			last = p
		}
		for id, hours := range used {
			assert.LessOrEqual(t, hours, start[id], "trial %d: member %s overbooked", trial, id)
		}
	}
}

package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/mdplan/internal/domain"
)

const (
	// DefaultEffortHours is assumed for tasks without an effort estimate.
	DefaultEffortHours = 8
	// missingPriority sorts tasks without a priority last.
	missingPriority = 999
)

// Suggestion proposes assigning a task to a member for the given week.
type Suggestion struct {
	TaskID     string
	TaskTitle  string
	MemberID   string
	MemberName string
	Hours      float64
	WeekStart  string
}

// WeekStart returns the Monday of the week containing t as YYYY-MM-DD.
func WeekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

// Unassigned returns the open tasks without an assignee, in pre-order.
func Unassigned(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		if !t.Completed && t.Config.Assignee == "" {
			out = append(out, t)
		}
		return true
	})
	return out
}

// RemainingCapacity is each member's weekly capacity minus the hours already
// allocated to them in week.
func RemainingCapacity(plan domain.CapacityPlan, week string) map[string]float64 {
	remaining := make(map[string]float64, len(plan.TeamMembers))
	for _, m := range plan.TeamMembers {
		remaining[m.ID] = m.WeeklyCapacity()
	}
	for _, a := range plan.Allocations {
		if a.WeekStart == week {
			if _, ok := remaining[a.MemberID]; ok {
				remaining[a.MemberID] -= a.AllocatedHours
			}
		}
	}
	return remaining
}

// SuggestAssignments walks the unassigned open tasks by ascending priority and
// gives each one to the member with the most remaining capacity that still
// covers its effort. A task no member can take is skipped. Ties go to the
// member listed first in the plan.
func SuggestAssignments(tasks []*domain.Task, plan domain.CapacityPlan, week string) []Suggestion {
	candidates := Unassigned(tasks)
	sort.SliceStable(candidates, func(i, j int) bool {
		return priorityOf(candidates[i]) < priorityOf(candidates[j])
	})

	remaining := RemainingCapacity(plan, week)
	var out []Suggestion
	for _, t := range candidates {
		effort := effortOf(t)
		best := -1
		for i, m := range plan.TeamMembers {
			r := remaining[m.ID]
			if r >= effort && (best < 0 || r > remaining[plan.TeamMembers[best].ID]) {
				best = i
			}
		}
		if best < 0 {
			continue
		}
		m := plan.TeamMembers[best]
		remaining[m.ID] -= effort
		out = append(out, Suggestion{
			TaskID:     t.ID,
			TaskTitle:  t.Title,
			MemberID:   m.ID,
			MemberName: m.Name,
			Hours:      effort,
			WeekStart:  week,
		})
	}
	return out
}

func priorityOf(t *domain.Task) int {
	if t.Config.Priority == nil {
		return missingPriority
	}
	return *t.Config.Priority
}

func effortOf(t *domain.Task) float64 {
	if t.Config.Effort == nil || *t.Config.Effort <= 0 {
		return DefaultEffortHours
	}
	return float64(*t.Config.Effort)
}

// Allocations turns accepted suggestions into task allocations. Suggestions
// for members missing from the plan are dropped.
func Allocations(plan domain.CapacityPlan, accepted []Suggestion, newID domain.IDGen) []domain.WeeklyAllocation {
	taken := map[string]bool{}
	for _, a := range plan.Allocations {
		taken[a.ID] = true
	}
	var out []domain.WeeklyAllocation
	for _, s := range accepted {
		if _, ok := plan.Member(s.MemberID); !ok {
			continue
		}
		id := domain.UniqueID(newID, func(id string) bool { return taken[id] })
		taken[id] = true
		out = append(out, domain.WeeklyAllocation{
			ID:             id,
			MemberID:       s.MemberID,
			WeekStart:      s.WeekStart,
			AllocatedHours: s.Hours,
			TargetType:     domain.TargetTask,
			TargetID:       s.TaskID,
		})
	}
	return out
}

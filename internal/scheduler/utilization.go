// Package scheduler computes capacity figures for team members and the greedy
// task-to-member assignment over a capacity plan.
package scheduler

import (
	"math"
	"sort"

	"github.com/alexanderramin/mdplan/internal/domain"
)

// MemberUtilization is the capacity report of one team member.
type MemberUtilization struct {
	MemberID        string
	MemberName      string
	WeeklyCapacity  float64
	AllocatedByWeek map[string]float64
	TotalAllocated  float64
	ActualHours     float64
	// Percent is round(100 * TotalAllocated / WeeklyCapacity), 0 without
	// capacity.
	Percent int
}

// Weeks returns the allocated week starts in ascending order.
func (u MemberUtilization) Weeks() []string {
	weeks := make([]string, 0, len(u.AllocatedByWeek))
	for w := range u.AllocatedByWeek {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)
	return weeks
}

// Utilization reports every member of the plan. Actual hours are time entries
// whose person matches the member's name or id.
func Utilization(plan domain.CapacityPlan, log *domain.TimeLog) []MemberUtilization {
	var entries []domain.TaskTimeEntry
	if log != nil {
		entries = log.All()
	}
	out := make([]MemberUtilization, 0, len(plan.TeamMembers))
	for _, m := range plan.TeamMembers {
		u := MemberUtilization{
			MemberID:        m.ID,
			MemberName:      m.Name,
			WeeklyCapacity:  m.WeeklyCapacity(),
			AllocatedByWeek: map[string]float64{},
		}
		for _, a := range plan.Allocations {
			if a.MemberID == m.ID {
				u.AllocatedByWeek[a.WeekStart] += a.AllocatedHours
				u.TotalAllocated += a.AllocatedHours
			}
		}
		for _, e := range entries {
			if e.Person != "" && (e.Person == m.Name || e.Person == m.ID) {
				u.ActualHours += e.Hours
			}
		}
		u.Percent = percent(u.TotalAllocated, u.WeeklyCapacity)
		out = append(out, u)
	}
	return out
}

func percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * part / whole))
}

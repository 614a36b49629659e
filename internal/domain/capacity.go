package domain

// TeamMember is one person whose weekly hours can be allocated.
type TeamMember struct {
	ID          string
	Name        string
	Role        string
	HoursPerDay float64
	WorkingDays []string
}

// WeeklyCapacity is HoursPerDay times the number of working days.
func (m TeamMember) WeeklyCapacity() float64 {
	return m.HoursPerDay * float64(len(m.WorkingDays))
}

// WeeklyAllocation books hours of a member for the week starting WeekStart
// (a Monday, YYYY-MM-DD).
type WeeklyAllocation struct {
	ID             string
	MemberID       string
	WeekStart      string
	AllocatedHours float64
	TargetType     AllocationTarget
	TargetID       string
	Notes          string
}

type CapacityPlan struct {
	ID          string
	Title       string
	Date        string
	BudgetHours *float64
	TeamMembers []TeamMember
	Allocations []WeeklyAllocation
}

// DefaultWorkingDays is used for members without an explicit day list.
var DefaultWorkingDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// DefaultHoursPerDay is used for members without explicit hours.
const DefaultHoursPerDay = 8.0

// Member returns the member with the given id.
func (p *CapacityPlan) Member(id string) (TeamMember, bool) {
	for _, m := range p.TeamMembers {
		if m.ID == id {
			return m, true
		}
	}
	return TeamMember{}, false
}

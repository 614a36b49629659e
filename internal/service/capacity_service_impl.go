package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/scheduler"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

type capacityService struct {
	RecordService[domain.CapacityPlan]
	repos    *repository.Repos
	plans    repository.EntityRepo[domain.CapacityPlan]
	tasks    repository.TaskRepo
	timeLog  repository.TimeLogRepo
	clock    Clock
	newID    domain.IDGen
	observer UseCaseObserver
}

func NewCapacityService(repos *repository.Repos, clock Clock, newID domain.IDGen, observers ...UseCaseObserver) CapacityService {
	prepare := Dated("capacity plan", clock, func(p *domain.CapacityPlan) (*string, *string) { return &p.Title, &p.Date })
	return &capacityService{
		RecordService: NewRecordService(repos.Capacity, "capacity plan", prepare, observers...),
		repos:         repos,
		plans:         repos.Capacity,
		tasks:         repos.Tasks,
		timeLog:       repos.TimeLog,
		clock:         clock,
		newID:         idGenOrDefault(newID),
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *capacityService) plan(ctx context.Context, id string) (domain.CapacityPlan, error) {
	p, ok, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return p, err
	}
	if !ok {
		return p, notFound("capacity plan", id)
	}
	return p, nil
}

// AddMember adds a team member, defaulting to 8 hours on weekdays.
func (s *capacityService) AddMember(ctx context.Context, planID string, m domain.TeamMember) (added domain.TeamMember, err error) {
	done := track(ctx, s.observer, "capacity-add-member", map[string]any{"plan_id": planID})
	defer func() { done(err) }()

	if err = requireText("team member", "name", m.Name); err != nil {
		return m, err
	}
	if m.HoursPerDay <= 0 {
		m.HoursPerDay = domain.DefaultHoursPerDay
	}
	if len(m.WorkingDays) == 0 {
		m.WorkingDays = append([]string(nil), domain.DefaultWorkingDays...)
	}
	found, err := s.plans.Update(ctx, planID, func(p *domain.CapacityPlan) {
		if m.ID == "" {
			m.ID = domain.UniqueID(s.newID, func(id string) bool { _, ok := p.Member(id); return ok })
		}
		p.TeamMembers = append(p.TeamMembers, m)
	})
	return m, foundOr(found, err, "capacity plan", planID)
}

// Allocate books hours of a member. The week start is aligned to its Monday.
func (s *capacityService) Allocate(ctx context.Context, planID string, a domain.WeeklyAllocation) (added domain.WeeklyAllocation, err error) {
	done := track(ctx, s.observer, "capacity-allocate", map[string]any{"plan_id": planID, "member_id": a.MemberID})
	defer func() { done(err) }()

	if a.AllocatedHours <= 0 {
		return a, fmt.Errorf("allocated hours must be positive: %w", domain.ErrInvalidInput)
	}
	a.TargetType = domain.CoalesceStatus(a.TargetType, domain.TargetProject)
	if !domain.ValidTargets[a.TargetType] {
		return a, fmt.Errorf("unknown allocation target %q: %w", a.TargetType, domain.ErrInvalidInput)
	}
	a.WeekStart, err = alignWeek(a.WeekStart, s.clock)
	if err != nil {
		return a, err
	}

	p, err := s.plan(ctx, planID)
	if err != nil {
		return a, err
	}
	if _, ok := p.Member(a.MemberID); !ok {
		return a, notFound("team member", a.MemberID)
	}
	found, err := s.plans.Update(ctx, planID, func(p *domain.CapacityPlan) {
		if a.ID == "" {
			taken := map[string]bool{}
			for _, x := range p.Allocations {
				taken[x.ID] = true
			}
			a.ID = domain.UniqueID(s.newID, func(id string) bool { return taken[id] })
		}
		p.Allocations = append(p.Allocations, a)
	})
	return a, foundOr(found, err, "capacity plan", planID)
}

func (s *capacityService) Utilization(ctx context.Context, planID string) ([]scheduler.MemberUtilization, error) {
	p, err := s.plan(ctx, planID)
	if err != nil {
		return nil, err
	}
	log, err := s.timeLog.Read(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.Utilization(p, log), nil
}

// SuggestAssignments proposes assignees for the current week.
func (s *capacityService) SuggestAssignments(ctx context.Context, planID string) ([]scheduler.Suggestion, error) {
	p, err := s.plan(ctx, planID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.SuggestAssignments(tasks, p, scheduler.WeekStart(s.clock.now())), nil
}

// ApplyAssignments books the accepted suggestions as task allocations and
// sets each task's assignee to the member name. Suggestions for unknown
// members or tasks are skipped. The plan and the board are written together.
func (s *capacityService) ApplyAssignments(ctx context.Context, planID string, accepted []scheduler.Suggestion) (applied int, err error) {
	fields := map[string]any{"plan_id": planID}
	done := track(ctx, s.observer, "capacity-apply-assignments", fields)
	defer func() { done(err) }()

	p, err := s.plan(ctx, planID)
	if err != nil {
		return 0, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return 0, err
	}
	x := tasktree.NewIndex(tasks)
	names := map[string]string{}
	var kept []scheduler.Suggestion
	for _, sug := range accepted {
		m, ok := p.Member(sug.MemberID)
		if !ok || !x.Has(sug.TaskID) {
			continue
		}
		names[sug.TaskID] = m.Name
		kept = append(kept, sug)
	}
	if len(kept) == 0 {
		fields["applied"] = 0
		return 0, nil
	}

	book := s.plans.Edit(func(plans []domain.CapacityPlan) ([]domain.CapacityPlan, error) {
		for i := range plans {
			if plans[i].ID == planID {
				allocs := scheduler.Allocations(plans[i], kept, s.newID)
				plans[i].Allocations = append(plans[i].Allocations, allocs...)
				applied = len(allocs)
				return plans, nil
			}
		}
		return nil, notFound("capacity plan", planID)
	})
	assign := s.tasks.Edit(func(b *codec.Board) error {
		bx := tasktree.NewIndex(b.Tasks)
		for _, sug := range kept {
			t, ok := bx.Get(sug.TaskID)
			if !ok {
				return notFound("task", sug.TaskID)
			}
			t.Config.Assignee = names[sug.TaskID]
		}
		return nil
	})
	if err = s.repos.Apply(ctx, book, assign); err != nil {
		return 0, fmt.Errorf("assigning tasks: %w", err)
	}
	fields["applied"] = applied
	return applied, nil
}

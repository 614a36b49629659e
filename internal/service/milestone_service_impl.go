package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type milestoneService struct {
	milestones repository.EntityRepo[domain.Milestone]
	tasks      repository.TaskRepo
	observer   UseCaseObserver
}

func NewMilestoneService(
	milestones repository.EntityRepo[domain.Milestone],
	tasks repository.TaskRepo,
	observers ...UseCaseObserver,
) MilestoneService {
	return &milestoneService{milestones: milestones, tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

// List returns the section milestones followed by those only referenced from
// tasks, each with its progress.
func (s *milestoneService) List(ctx context.Context) ([]domain.MilestoneProgress, error) {
	section, err := s.milestones.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return WithProgress(MergeMilestones(section, tasks), tasks), nil
}

func (s *milestoneService) Progress(ctx context.Context, nameOrID string) (domain.MilestoneProgress, error) {
	all, err := s.List(ctx)
	if err != nil {
		return domain.MilestoneProgress{}, err
	}
	for _, m := range all {
		if m.ID == nameOrID || m.Name == nameOrID || m.ID == markdown.Slug(nameOrID) {
			return m, nil
		}
	}
	return domain.MilestoneProgress{}, notFound("milestone", nameOrID)
}

func (s *milestoneService) Create(ctx context.Context, m domain.Milestone) (created domain.Milestone, err error) {
	done := track(ctx, s.observer, "milestone-create", map[string]any{"name": m.Name})
	defer func() { done(err) }()

	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return m, fmt.Errorf("milestone name is required: %w", domain.ErrInvalidInput)
	}
	m.Status = domain.CoalesceStatus(m.Status, domain.MilestoneOpen)
	created, err = s.milestones.Create(ctx, m)
	if err != nil {
		return created, fmt.Errorf("creating milestone: %w", err)
	}
	return created, nil
}

func (s *milestoneService) Update(ctx context.Context, id string, fn func(*domain.Milestone)) (err error) {
	done := track(ctx, s.observer, "milestone-update", map[string]any{"milestone_id": id})
	defer func() { done(err) }()

	found, err := s.milestones.Update(ctx, id, fn)
	return foundOr(found, err, "milestone", id)
}

func (s *milestoneService) Delete(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "milestone-delete", map[string]any{"milestone_id": id})
	defer func() { done(err) }()

	found, err := s.milestones.Delete(ctx, id)
	return foundOr(found, err, "milestone", id)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) Board(ctx context.Context) (codec.Board, error) {
	return s.tasks.Board(ctx)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("task", id)
	}
	return t, nil
}

// Create adds a root task, or a child when parentID is set.
func (s *taskService) Create(ctx context.Context, t *domain.Task, parentID string) (created *domain.Task, err error) {
	fields := map[string]any{"parent_id": parentID}
	done := track(ctx, s.observer, "task-create", fields)
	defer func() { done(err) }()

	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, fmt.Errorf("task title is required: %w", domain.ErrInvalidInput)
	}
	if parentID == "" {
		created, err = s.tasks.Create(ctx, t)
	} else {
		var found bool
		created, found, err = s.tasks.AddChild(ctx, parentID, t)
		if err == nil && !found {
			err = notFound("parent task", parentID)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	fields["task_id"] = created.ID
	return created, nil
}

func (s *taskService) Update(ctx context.Context, id string, fn func(*domain.Task)) (err error) {
	done := track(ctx, s.observer, "task-update", map[string]any{"task_id": id})
	defer func() { done(err) }()

	found, err := s.tasks.Update(ctx, id, fn)
	return foundOr(found, err, "task", id)
}

func (s *taskService) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.Update(ctx, id, func(t *domain.Task) { t.Completed = completed })
}

func (s *taskService) Toggle(ctx context.Context, id string) (*domain.Task, error) {
	if err := s.Update(ctx, id, func(t *domain.Task) { t.Completed = !t.Completed }); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *taskService) Move(ctx context.Context, id, section string) (err error) {
	done := track(ctx, s.observer, "task-move", map[string]any{"task_id": id, "section": section})
	defer func() { done(err) }()

	section = strings.TrimSpace(section)
	if section == "" {
		return fmt.Errorf("target section is required: %w", domain.ErrInvalidInput)
	}
	found, err := s.tasks.Move(ctx, id, section)
	return foundOr(found, err, "task", id)
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "task-delete", map[string]any{"task_id": id})
	defer func() { done(err) }()

	found, err := s.tasks.Delete(ctx, id)
	return foundOr(found, err, "task", id)
}

func (s *taskService) AppendMarkdown(ctx context.Context, section, snippet string) (added []*domain.Task, err error) {
	fields := map[string]any{"section": section}
	done := track(ctx, s.observer, "task-append-markdown", fields)
	defer func() { done(err) }()

	added, err = s.tasks.AppendMarkdown(ctx, section, snippet)
	if err != nil {
		return nil, fmt.Errorf("appending markdown: %w", err)
	}
	fields["task_count"] = len(added)
	return added, nil
}

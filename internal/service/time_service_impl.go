package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type timeService struct {
	timeLog  repository.TimeLogRepo
	tasks    repository.TaskRepo
	clock    Clock
	observer UseCaseObserver
}

func NewTimeService(timeLog repository.TimeLogRepo, tasks repository.TaskRepo, clock Clock, observers ...UseCaseObserver) TimeService {
	return &timeService{timeLog: timeLog, tasks: tasks, clock: clock, observer: useCaseObserverOrNoop(observers)}
}

// List returns the entries of one task, or of every task when taskID is
// empty.
func (s *timeService) List(ctx context.Context, taskID string) ([]domain.TaskTimeEntry, error) {
	log, err := s.timeLog.Read(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.TaskTimeEntry
	for _, e := range log.All() {
		if taskID == "" || e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Log records hours against an existing task. The date defaults to today.
func (s *timeService) Log(ctx context.Context, taskID string, e domain.TimeEntry) (logged domain.TimeEntry, err error) {
	done := track(ctx, s.observer, "time-log", map[string]any{"task_id": taskID, "hours": e.Hours})
	defer func() { done(err) }()

	if _, ok, err := s.tasks.FindByID(ctx, taskID); err != nil || !ok {
		return e, foundOr(ok, err, "task", taskID)
	}
	e.Date = domain.CoalesceStr(e.Date, s.clock.today())
	logged, err = s.timeLog.Add(ctx, taskID, e)
	if err != nil {
		return logged, fmt.Errorf("logging time: %w", err)
	}
	return logged, nil
}

func (s *timeService) Delete(ctx context.Context, taskID, entryID string) (err error) {
	done := track(ctx, s.observer, "time-delete", map[string]any{"task_id": taskID, "entry_id": entryID})
	defer func() { done(err) }()

	found, err := s.timeLog.Delete(ctx, taskID, entryID)
	return foundOr(found, err, "time entry", entryID)
}

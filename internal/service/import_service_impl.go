package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/importer"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

type importService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

func NewImportService(tasks repository.TaskRepo, observers ...UseCaseObserver) ImportService {
	return &importService{tasks: tasks, observer: useCaseObserverOrNoop(observers)}
}

// ImportFile validates the rows of a CSV or JSON file and appends them to
// the board.
func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	rows, err := importer.LoadRows(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	if errs := importer.ValidateRows(rows); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %w: %w", errors.Join(errs...), domain.ErrInvalidInput)
	}
	return s.ImportRows(ctx, importer.ToFlat(rows))
}

// ImportRows rebuilds the tree from flat rows and appends it. Rows whose
// parent is unknown become roots; ids already on the board are renumbered.
func (s *importService) ImportRows(ctx context.Context, rows []tasktree.FlatTask) (res *ImportResult, err error) {
	fields := map[string]any{"row_count": len(rows)}
	done := track(ctx, s.observer, "import-tasks", fields)
	defer func() { done(err) }()

	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to import: %w", domain.ErrInvalidInput)
	}
	roots := tasktree.Build(rows)
	added, err := s.tasks.AppendTasks(ctx, roots)
	if err != nil {
		return nil, fmt.Errorf("importing tasks: %w", err)
	}
	res = &ImportResult{Roots: len(added), TaskCount: tasktree.NewIndex(added).Len()}
	fields["task_count"] = res.TaskCount
	return res, nil
}

// ExportRows flattens the board in pre-order.
func (s *importService) ExportRows(ctx context.Context) ([]tasktree.FlatTask, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return tasktree.Flatten(tasks), nil
}

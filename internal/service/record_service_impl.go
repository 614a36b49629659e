package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/repository"
)

type recordService[T any] struct {
	repo     repository.EntityRepo[T]
	kind     string
	prepare  func(*T) error
	observer UseCaseObserver
}

// NewRecordService wraps a collection with not-found mapping and use-case
// reporting. prepare validates and defaults a record before it is created;
// it may be nil.
func NewRecordService[T any](
	repo repository.EntityRepo[T],
	kind string,
	prepare func(*T) error,
	observers ...UseCaseObserver,
) RecordService[T] {
	return &recordService[T]{repo: repo, kind: kind, prepare: prepare, observer: useCaseObserverOrNoop(observers)}
}

func (s *recordService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.ReadAll(ctx)
}

func (s *recordService[T]) GetByID(ctx context.Context, id string) (T, error) {
	item, ok, err := s.repo.FindByID(ctx, id)
	if err == nil && !ok {
		err = notFound(s.kind, id)
	}
	return item, err
}

func (s *recordService[T]) Create(ctx context.Context, item T) (created T, err error) {
	done := track(ctx, s.observer, s.kind+"-create", nil)
	defer func() { done(err) }()

	if s.prepare != nil {
		if err = s.prepare(&item); err != nil {
			return item, err
		}
	}
	created, err = s.repo.Create(ctx, item)
	if err != nil {
		return created, fmt.Errorf("creating %s: %w", s.kind, err)
	}
	return created, nil
}

func (s *recordService[T]) Update(ctx context.Context, id string, fn func(*T)) (err error) {
	done := track(ctx, s.observer, s.kind+"-update", map[string]any{"id": id})
	defer func() { done(err) }()

	found, err := s.repo.Update(ctx, id, fn)
	return foundOr(found, err, s.kind, id)
}

func (s *recordService[T]) Delete(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, s.kind+"-delete", map[string]any{"id": id})
	defer func() { done(err) }()

	found, err := s.repo.Delete(ctx, id)
	return foundOr(found, err, s.kind, id)
}

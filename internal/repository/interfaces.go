// Package repository exposes the sections of the planning document as
// collections. Every operation reads the whole section and every mutation
// rewrites it, under the document store's lock.
package repository

import (
	"context"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
)

// DocumentStore is the read-modify-write contract repositories rely on.
type DocumentStore interface {
	Read(ctx context.Context) ([]string, error)
	Update(ctx context.Context, fn func(lines []string) ([]string, error)) error
}

// EntityRepo is the CRUD surface shared by every record family.
type EntityRepo[T any] interface {
	ReadAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
	FindByID(ctx context.Context, id string) (T, bool, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, fn func(*T)) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error
	Edit(fn func(items []T) ([]T, error)) Step
}

// Step is one section rewrite. Several steps can be applied in a single
// store update with Repos.Apply.
type Step func(lines []string) ([]string, error)

type TaskRepo interface {
	Board(ctx context.Context) (codec.Board, error)
	SaveBoard(ctx context.Context, b codec.Board) error
	List(ctx context.Context) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, bool, error)
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	AddChild(ctx context.Context, parentID string, t *domain.Task) (*domain.Task, bool, error)
	Update(ctx context.Context, id string, fn func(*domain.Task)) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Move(ctx context.Context, id, section string) (bool, error)
	AppendMarkdown(ctx context.Context, section, snippet string) ([]*domain.Task, error)
	AppendTasks(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error)
	Edit(fn func(b *codec.Board) error) Step
}

type TimeLogRepo interface {
	Read(ctx context.Context) (*domain.TimeLog, error)
	Add(ctx context.Context, taskID string, e domain.TimeEntry) (domain.TimeEntry, error)
	Delete(ctx context.Context, taskID, entryID string) (bool, error)
}

type ProjectConfigRepo interface {
	Get(ctx context.Context) (domain.ProjectConfig, error)
	Save(ctx context.Context, cfg domain.ProjectConfig) error
}

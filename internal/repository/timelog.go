package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

type timeLogRepo struct {
	store DocumentStore
	newID domain.IDGen
}

func NewTimeLogRepo(store DocumentStore, newID domain.IDGen) TimeLogRepo {
	if newID == nil {
		newID = domain.NewShortID
	}
	return &timeLogRepo{store: store, newID: newID}
}

func (r *timeLogRepo) Read(ctx context.Context) (*domain.TimeLog, error) {
	lines, err := r.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading time log: %w", err)
	}
	return codec.ParseTimeLog(lines), nil
}

func (r *timeLogRepo) mutate(ctx context.Context, fn func(log *domain.TimeLog) error) error {
	err := r.store.Update(ctx, func(lines []string) ([]string, error) {
		log := codec.ParseTimeLog(lines)
		if err := fn(log); err != nil {
			return nil, err
		}
		return markdown.Replace(lines, codec.TimeTrackingSection, codec.FormatTimeLog(log), codec.BoardSection), nil
	})
	if err != nil {
		return fmt.Errorf("saving time log: %w", err)
	}
	return nil
}

// Add logs an entry against a task. The entry id is generated when empty.
func (r *timeLogRepo) Add(ctx context.Context, taskID string, e domain.TimeEntry) (domain.TimeEntry, error) {
	if strings.TrimSpace(taskID) == "" {
		return e, fmt.Errorf("task id is required: %w", domain.ErrInvalidInput)
	}
	if e.Hours <= 0 {
		return e, fmt.Errorf("hours must be positive: %w", domain.ErrInvalidInput)
	}
	err := r.mutate(ctx, func(log *domain.TimeLog) error {
		if e.ID == "" {
			taken := map[string]bool{}
			for _, te := range log.All() {
				taken[te.ID] = true
			}
			e.ID = domain.UniqueID(r.newID, func(s string) bool { return taken[s] })
		}
		log.Add(taskID, e)
		return nil
	})
	return e, err
}

func (r *timeLogRepo) Delete(ctx context.Context, taskID, entryID string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(log *domain.TimeLog) error {
		if found = log.Remove(taskID, entryID); !found {
			return errUnchanged
		}
		return nil
	})
	return found, ignoreUnchanged(err)
}

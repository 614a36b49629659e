package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// Collection stores one record family in its document section. New sections
// are inserted in front of the Board.
type Collection[T any] struct {
	store  DocumentStore
	family codec.Family[T]
	newID  domain.IDGen
	// prepare runs on every record before it is created.
	prepare func(*T)
}

// NewCollection binds a family to a store.
func NewCollection[T any](store DocumentStore, family codec.Family[T], newID domain.IDGen) *Collection[T] {
	if newID == nil {
		newID = domain.NewShortID
	}
	return &Collection[T]{store: store, family: family, newID: newID}
}

// ReadAll parses the section. An absent section has no records.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	lines, err := c.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.family.Section, err)
	}
	return c.family.Parse(lines), nil
}

// Save replaces the whole section with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	return c.Mutate(ctx, func([]T) ([]T, error) { return items, nil })
}

// Edit returns a Step that rewrites the section with the result of fn.
func (c *Collection[T]) Edit(fn func(items []T) ([]T, error)) Step {
	return func(lines []string) ([]string, error) {
		items, err := fn(c.family.Parse(lines))
		if err != nil {
			return nil, err
		}
		return markdown.Replace(lines, c.family.Section, c.family.Format(items), codec.BoardSection), nil
	}
}

// Mutate runs fn on the parsed section and writes the result back in one
// locked update.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	err := c.store.Update(ctx, c.Edit(fn))
	if err != nil {
		return fmt.Errorf("saving %s: %w", c.family.Section, err)
	}
	return nil
}

// FindByID returns the record with the given id.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.ReadAll(ctx)
	if err != nil {
		return zero, false, err
	}
	for i := range items {
		if *c.family.ID(&items[i]) == id {
			return items[i], true, nil
		}
	}
	return zero, false, nil
}

// Create appends item. An empty id is filled with a fresh one that is unique
// within the section; an explicit id must not be taken yet.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	if c.prepare != nil {
		c.prepare(&item)
	}
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		taken := make(map[string]bool, len(items))
		for i := range items {
			taken[*c.family.ID(&items[i])] = true
		}
		id := c.family.ID(&item)
		switch {
		case *id == "":
			*id = domain.UniqueID(c.newID, func(s string) bool { return taken[s] })
		case taken[*id]:
			return nil, fmt.Errorf("%s id %q already exists: %w", c.family.Section, *id, domain.ErrInvalidInput)
		}
		return append(items, item), nil
	})
	return item, err
}

// Update applies fn to the stored record. It reports false when no record
// has the id.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T)) (bool, error) {
	found := false
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if *c.family.ID(&items[i]) == id {
				fn(&items[i])
				*c.family.ID(&items[i]) = id
				found = true
				break
			}
		}
		if !found {
			return nil, errUnchanged
		}
		return items, nil
	})
	return found, ignoreUnchanged(err)
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for i := range items {
			if *c.family.ID(&items[i]) == id {
				found = true
				continue
			}
			kept = append(kept, items[i])
		}
		if !found {
			return nil, errUnchanged
		}
		return kept, nil
	})
	return found, ignoreUnchanged(err)
}

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type ideaService struct {
	ideas    repository.EntityRepo[domain.Idea]
	clock    Clock
	observer UseCaseObserver
}

func NewIdeaService(ideas repository.EntityRepo[domain.Idea], clock Clock, observers ...UseCaseObserver) IdeaService {
	return &ideaService{ideas: ideas, clock: clock, observer: useCaseObserverOrNoop(observers)}
}

func (s *ideaService) List(ctx context.Context) ([]domain.IdeaWithBacklinks, error) {
	ideas, err := s.ideas.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Backlinks(ideas), nil
}

func (s *ideaService) Create(ctx context.Context, idea domain.Idea) (created domain.Idea, err error) {
	done := track(ctx, s.observer, "idea-create", map[string]any{"title": idea.Title})
	defer func() { done(err) }()

	idea.Title = strings.TrimSpace(idea.Title)
	if idea.Title == "" {
		return idea, fmt.Errorf("idea title is required: %w", domain.ErrInvalidInput)
	}
	idea.Status = domain.CoalesceStatus(idea.Status, domain.IdeaNew)
	idea.Created = domain.CoalesceStr(idea.Created, s.clock.today())
	created, err = s.ideas.Create(ctx, idea)
	if err != nil {
		return created, fmt.Errorf("creating idea: %w", err)
	}
	return created, nil
}

func (s *ideaService) Update(ctx context.Context, id string, fn func(*domain.Idea)) (err error) {
	done := track(ctx, s.observer, "idea-update", map[string]any{"idea_id": id})
	defer func() { done(err) }()

	found, err := s.ideas.Update(ctx, id, fn)
	return foundOr(found, err, "idea", id)
}

// Link records that fromID references toID. Both ideas must exist.
func (s *ideaService) Link(ctx context.Context, fromID, toID string) (err error) {
	done := track(ctx, s.observer, "idea-link", map[string]any{"from": fromID, "to": toID})
	defer func() { done(err) }()

	if _, ok, err := s.ideas.FindByID(ctx, toID); err != nil || !ok {
		return foundOr(ok, err, "idea", toID)
	}
	found, err := s.ideas.Update(ctx, fromID, func(i *domain.Idea) {
		if !slices.Contains(i.Links, toID) {
			i.Links = append(i.Links, toID)
		}
	})
	return foundOr(found, err, "idea", fromID)
}

func (s *ideaService) Delete(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "idea-delete", map[string]any{"idea_id": id})
	defer func() { done(err) }()

	found, err := s.ideas.Delete(ctx, id)
	return foundOr(found, err, "idea", id)
}

package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type strategyService struct {
	RecordService[domain.StrategicLevelsBuilder]
	repo     repository.EntityRepo[domain.StrategicLevelsBuilder]
	newID    domain.IDGen
	observer UseCaseObserver
}

func NewStrategyService(
	repo repository.EntityRepo[domain.StrategicLevelsBuilder],
	clock Clock,
	newID domain.IDGen,
	observers ...UseCaseObserver,
) StrategyService {
	prepare := Dated("strategy", clock, func(b *domain.StrategicLevelsBuilder) (*string, *string) { return &b.Title, &b.Date })
	return &strategyService{
		RecordService: NewRecordService(repo, "strategy", prepare, observers...),
		repo:          repo,
		newID:         idGenOrDefault(newID),
		observer:      useCaseObserverOrNoop(observers),
	}
}

// AddLevel appends a level to a builder. A parent must exist in the builder
// and rank at or above the new level.
func (s *strategyService) AddLevel(ctx context.Context, builderID string, level domain.StrategicLevel) (added domain.StrategicLevel, err error) {
	done := track(ctx, s.observer, "strategy-add-level", map[string]any{"builder_id": builderID, "level": string(level.Level)})
	defer func() { done(err) }()

	if err = requireText("strategic level", "title", level.Title); err != nil {
		return level, err
	}
	if level.Level.Rank() < 0 {
		return level, fmt.Errorf("unknown strategic level %q: %w", level.Level, domain.ErrInvalidInput)
	}
	var inner error
	found, err := s.repo.Update(ctx, builderID, func(b *domain.StrategicLevelsBuilder) {
		taken := map[string]bool{}
		order := 0
		var parent *domain.StrategicLevel
		for i := range b.Levels {
			l := &b.Levels[i]
			taken[l.ID] = true
			if l.Level == level.Level {
				order++
			}
			if l.ID == level.ParentID {
				parent = l
			}
		}
		if level.ParentID != "" {
			if parent == nil {
				inner = notFound("parent level", level.ParentID)
				return
			}
			if parent.Level.Rank() > level.Level.Rank() {
				inner = fmt.Errorf("%s cannot be the parent of %s: %w", parent.Level, level.Level, domain.ErrInvalidInput)
				return
			}
		}
		if level.ID == "" {
			level.ID = domain.UniqueID(s.newID, func(id string) bool { return taken[id] })
		}
		level.Order = order
		b.Levels = append(b.Levels, level)
	})
	if err = foundOr(found, err, "strategy", builderID); err != nil {
		return level, err
	}
	return level, inner
}

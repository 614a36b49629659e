package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type projectService struct {
	config   repository.ProjectConfigRepo
	clock    Clock
	observer UseCaseObserver
}

func NewProjectService(config repository.ProjectConfigRepo, clock Clock, observers ...UseCaseObserver) ProjectService {
	return &projectService{config: config, clock: clock, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Get(ctx context.Context) (domain.ProjectConfig, error) {
	return s.config.Get(ctx)
}

// Update applies fn to the Configurations section and stamps Last Updated.
func (s *projectService) Update(ctx context.Context, fn func(*domain.ProjectConfig)) (cfg domain.ProjectConfig, err error) {
	done := track(ctx, s.observer, "project-config-update", nil)
	defer func() { done(err) }()

	cfg, err = s.config.Get(ctx)
	if err != nil {
		return cfg, err
	}
	fn(&cfg)
	if cfg.WorkingDaysPerWeek < 0 || cfg.WorkingDaysPerWeek > 7 {
		return cfg, fmt.Errorf("working days per week must be within 0-7: %w", domain.ErrInvalidInput)
	}
	cfg.LastUpdated = s.clock.today()
	if err = s.config.Save(ctx, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
